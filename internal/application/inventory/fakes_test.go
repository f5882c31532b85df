package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

type stockKey struct{ product, warehouse string }

// fakeStockRepo existencias en memoria; devuelve copias para simular lecturas de BD.
type fakeStockRepo struct {
	mu        sync.Mutex
	rows      map[stockKey]*entity.StockRecord
	updateErr error
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: map[stockKey]*entity.StockRecord{}}
}

func (r *fakeStockRepo) seed(productID, warehouseID string, qty int) {
	r.rows[stockKey{productID, warehouseID}] = &entity.StockRecord{
		ID: productID + "@" + warehouseID, ProductID: productID, WarehouseID: warehouseID, Quantity: qty,
	}
}

func (r *fakeStockRepo) quantity(productID, warehouseID string) (int, bool) {
	s, ok := r.rows[stockKey{productID, warehouseID}]
	if !ok {
		return 0, false
	}
	return s.Quantity, true
}

func (r *fakeStockRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[stockKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStockRepo) Create(_ context.Context, s *entity.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := stockKey{s.ProductID, s.WarehouseID}
	if _, ok := r.rows[k]; ok {
		return errors.New("duplicate stock")
	}
	cp := *s
	r.rows[k] = &cp
	return nil
}

func (r *fakeStockRepo) Update(_ context.Context, s *entity.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	cp := *s
	r.rows[stockKey{s.ProductID, s.WarehouseID}] = &cp
	return nil
}

func (r *fakeStockRepo) ListByProducts(_ context.Context, ids []string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, s := range r.rows {
		for _, id := range ids {
			if s.ProductID == id {
				cp := *s
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []*entity.StockHistoryEntry
}

func (r *fakeHistoryRepo) Create(_ context.Context, e *entity.StockHistoryEntry) error {
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeHistoryRepo) List(_ context.Context, _ entity.StockHistoryFilter) ([]*entity.StockHistoryEntry, int, error) {
	return r.entries, len(r.entries), nil
}

// fakeTxRunner simula commit/rollback restaurando una copia de las existencias y el historial.
type fakeTxRunner struct {
	stocks  *fakeStockRepo
	history *fakeHistoryRepo
	runs    int
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	historyRepo repository.StockHistoryRepository,
) error) error {
	f.runs++
	rows := make(map[stockKey]*entity.StockRecord, len(f.stocks.rows))
	for k, v := range f.stocks.rows {
		cp := *v
		rows[k] = &cp
	}
	entries := append([]*entity.StockHistoryEntry(nil), f.history.entries...)

	if err := fn(f.stocks, f.history); err != nil {
		f.stocks.rows = rows
		f.history.entries = entries
		return err
	}
	return nil
}

// --- Mocks de catálogo (testify/mock) ---

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockProductRepo) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Product), args.Int(1), args.Error(2)
}

type mockWarehouseRepo struct{ mock.Mock }

func (m *mockWarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Warehouse), args.Int(1), args.Error(2)
}
