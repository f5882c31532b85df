package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockHistoryRepository historial append-only: no expone actualizaciones ni borrados.
type StockHistoryRepository interface {
	Create(ctx context.Context, entry *entity.StockHistoryEntry) error
	// List devuelve la página pedida (más recientes primero) y el total que cumple el filtro.
	List(ctx context.Context, filter entity.StockHistoryFilter) ([]*entity.StockHistoryEntry, int, error)
}
