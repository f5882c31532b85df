package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// HistoryRecorder agrega entradas al historial de existencias. Solo lo invoca el Ledger.
type HistoryRecorder struct {
	repo repository.StockHistoryRepository
}

// NewHistoryRecorder construye el recorder sobre el repositorio (normalmente atado a la tx).
func NewHistoryRecorder(repo repository.StockHistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record inserta la existencia resultante de una mutación. Nunca modifica entradas previas.
func (h *HistoryRecorder) Record(ctx context.Context, productID, warehouseID string, quantity int, at time.Time) error {
	entry := &entity.StockHistoryEntry{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		Date:        at,
		Quantity:    quantity,
	}
	if err := h.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record stock history: %w", err)
	}
	return nil
}
