package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
	"github.com/jhoicas/Pedidos-api/pkg/metrics"
)

// AdjustStockUseCase registra entradas o salidas manuales de mercancía (recepción, merma, conteo)
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type AdjustStockUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		log:           log.Component("stock"),
	}
}

// AdjustStockInput movimiento manual: Delta positivo entra a bodega, negativo sale.
type AdjustStockInput struct {
	ProductID   string
	WarehouseID string
	Delta       int
}

// AdjustStock valida que producto y bodega existan y aplica el movimiento en una transacción.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, in AdjustStockInput) (*entity.StockRecord, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Delta > inventory.MaxQuantity || in.Delta < -inventory.MaxQuantity {
		return nil, fmt.Errorf("%w: delta fuera de rango", domain.ErrInvalidInput)
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: in.ProductID}
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, &domain.NotFoundError{Entity: "warehouse", ID: in.WarehouseID}
	}

	var (
		result  *entity.StockRecord
		created int
		updated int
	)
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		historyRepo repository.StockHistoryRepository,
	) error {
		ledger := NewLedger(stockRepo, historyRepo)
		stock, err := ledger.ApplyDelta(ctx, in.ProductID, in.WarehouseID, in.Delta)
		if err != nil {
			return err
		}
		result = stock
		created, updated = ledger.Mutations()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Warn().Err(err).Str("product_id", in.ProductID).Str("warehouse_id", in.WarehouseID).
				Int("delta", in.Delta).Msg("ajuste rechazado")
			metrics.ObserveTransition("adjust_stock", metrics.ResultInsufficientStock)
			return nil, err
		}
		metrics.ObserveTransition("adjust_stock", metrics.ResultError)
		return nil, err
	}

	metrics.ObserveTransition("adjust_stock", metrics.ResultOK)
	metrics.ObserveStockMutations(created, updated)
	uc.log.Info().Str("product_id", in.ProductID).Str("warehouse_id", in.WarehouseID).
		Int("delta", in.Delta).Int("quantity", result.Quantity).Msg("existencia ajustada")
	return result, nil
}
