package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Ledger aplica movimientos sobre las existencias por (producto, bodega).
// Se construye por transacción: los repositorios deben estar atados a la misma tx.
// Toda creación o actualización de un registro genera exactamente una entrada de historial.
type Ledger struct {
	stocks  repository.StockRepository
	history *HistoryRecorder
	now     func() time.Time

	created int
	updated int
}

// NewLedger construye el libro sobre los repositorios de la transacción en curso.
func NewLedger(stockRepo repository.StockRepository, historyRepo repository.StockHistoryRepository) *Ledger {
	return &Ledger{
		stocks:  stockRepo,
		history: NewHistoryRecorder(historyRepo),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Mutations devuelve cuántos registros se crearon y actualizaron con este Ledger.
func (l *Ledger) Mutations() (created, updated int) {
	return l.created, l.updated
}

// ApplyDelta suma delta a la existencia del par. Si no hay registro y delta >= 0 lo crea con
// cantidad = delta; si el resultado sería negativo devuelve *domain.InsufficientStockError sin tocar nada.
// Un delta cero sobre un registro existente no es una mutación: no escribe ni registra historial.
func (l *Ledger) ApplyDelta(ctx context.Context, productID, warehouseID string, delta int) (*entity.StockRecord, error) {
	stock, err := l.stocks.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := checkSufficient(stock, productID, warehouseID, delta); err != nil {
		return nil, err
	}
	return l.write(ctx, stock, productID, warehouseID, delta)
}

// ApplyDeltaBatch aplica todos los movimientos de una bodega o ninguno.
// Fase 1: bloquea cada fila (en orden de ProductID) y valida contra esa foto consistente.
// Fase 2: solo si todo alcanza, escribe cada registro y su entrada de historial.
// Los movimientos de un mismo producto se combinan y los que suman cero se omiten.
func (l *Ledger) ApplyDeltaBatch(ctx context.Context, warehouseID string, deltas []inventory.StockDelta) ([]*entity.StockRecord, error) {
	merged := mergeDeltas(deltas)

	locked := make([]*entity.StockRecord, len(merged))
	for i, d := range merged {
		stock, err := l.stocks.GetForUpdate(ctx, d.ProductID, warehouseID)
		if err != nil {
			return nil, err
		}
		if err := checkSufficient(stock, d.ProductID, warehouseID, d.Delta); err != nil {
			return nil, err
		}
		locked[i] = stock
	}

	out := make([]*entity.StockRecord, 0, len(merged))
	for i, d := range merged {
		stock, err := l.write(ctx, locked[i], d.ProductID, warehouseID, d.Delta)
		if err != nil {
			return nil, err
		}
		out = append(out, stock)
	}
	return out, nil
}

func checkSufficient(stock *entity.StockRecord, productID, warehouseID string, delta int) error {
	available := 0
	if stock != nil {
		available = stock.Quantity
	}
	if delta > 0 && available > inventory.MaxQuantity-delta {
		return fmt.Errorf("%w: la existencia de %s en %s superaría %d", domain.ErrInvalidInput, productID, warehouseID, inventory.MaxQuantity)
	}
	if available+delta < 0 {
		return &domain.InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Available:   available,
			Requested:   -delta,
		}
	}
	return nil
}

// write persiste el movimiento ya validado. stock nil significa que el registro no existe.
func (l *Ledger) write(ctx context.Context, stock *entity.StockRecord, productID, warehouseID string, delta int) (*entity.StockRecord, error) {
	now := l.now()
	if stock == nil {
		stock = &entity.StockRecord{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    delta,
			UpdatedAt:   now,
		}
		if err := l.stocks.Create(ctx, stock); err != nil {
			return nil, err
		}
		l.created++
	} else {
		if delta == 0 {
			return stock, nil
		}
		stock.Quantity += delta
		stock.UpdatedAt = now
		if err := l.stocks.Update(ctx, stock); err != nil {
			return nil, err
		}
		l.updated++
	}
	if err := l.history.Record(ctx, stock.ProductID, stock.WarehouseID, stock.Quantity, now); err != nil {
		return nil, err
	}
	return stock, nil
}

func mergeDeltas(deltas []inventory.StockDelta) []inventory.StockDelta {
	sum := make(map[string]int, len(deltas))
	for _, d := range deltas {
		sum[d.ProductID] += d.Delta
	}
	out := make([]inventory.StockDelta, 0, len(sum))
	for id, delta := range sum {
		if delta == 0 {
			continue
		}
		out = append(out, inventory.StockDelta{ProductID: id, Delta: delta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
