package order

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

type stockKey struct{ product, warehouse string }

// memStore base de datos en memoria compartida por los repositorios falsos.
type memStore struct {
	orders  map[string]entity.Order // cabeceras, sin líneas
	items   map[string]entity.OrderItem
	stocks  map[stockKey]entity.StockRecord
	history []entity.StockHistoryEntry

	itemCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[string]entity.Order{},
		items:  map[string]entity.OrderItem{},
		stocks: map[stockKey]entity.StockRecord{},
	}
}

func (s *memStore) seedStock(productID, warehouseID string, qty int) {
	s.stocks[stockKey{productID, warehouseID}] = entity.StockRecord{
		ID: productID + "@" + warehouseID, ProductID: productID, WarehouseID: warehouseID, Quantity: qty,
	}
}

func (s *memStore) quantity(productID, warehouseID string) int {
	return s.stocks[stockKey{productID, warehouseID}].Quantity
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.orders {
		cp.orders[k] = v
	}
	for k, v := range s.items {
		cp.items[k] = v
	}
	for k, v := range s.stocks {
		cp.stocks[k] = v
	}
	cp.history = append(cp.history, s.history...)
	cp.itemCreateErr = s.itemCreateErr
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.orders, s.items, s.stocks, s.history = from.orders, from.items, from.stocks, from.history
}

func (s *memStore) withItems(o entity.Order) *entity.Order {
	o.Items = nil
	for _, it := range s.items {
		if it.OrderID == o.ID {
			o.Items = append(o.Items, it)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ProductID < o.Items[j].ProductID })
	return &o
}

type fakeOrderRepo struct{ s *memStore }

func (r fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	if _, ok := r.s.orders[o.ID]; ok {
		return errors.New("duplicate order")
	}
	h := *o
	h.Items = nil
	r.s.orders[o.ID] = h
	return nil
}

func (r fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return r.s.withItems(o), nil
}

func (r fakeOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r fakeOrderRepo) Update(_ context.Context, o *entity.Order) error {
	h, ok := r.s.orders[o.ID]
	if !ok {
		return errors.New("order not found")
	}
	h.Customer, h.Status, h.CompletedAt = o.Customer, o.Status, o.CompletedAt
	r.s.orders[o.ID] = h
	return nil
}

func (r fakeOrderRepo) List(_ context.Context, f entity.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.WarehouseID != "" && o.WarehouseID != f.WarehouseID {
			continue
		}
		if f.Customer != "" && !strings.Contains(strings.ToLower(o.Customer), strings.ToLower(f.Customer)) {
			continue
		}
		out = append(out, r.s.withItems(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

type fakeItemRepo struct{ s *memStore }

func (r fakeItemRepo) Create(_ context.Context, it *entity.OrderItem) error {
	if r.s.itemCreateErr != nil {
		return r.s.itemCreateErr
	}
	r.s.items[it.ID] = *it
	return nil
}

func (r fakeItemRepo) UpdateCount(_ context.Context, id string, count int) error {
	it, ok := r.s.items[id]
	if !ok {
		return errors.New("item not found")
	}
	it.Count = count
	r.s.items[id] = it
	return nil
}

func (r fakeItemRepo) Delete(_ context.Context, id string) error {
	delete(r.s.items, id)
	return nil
}

type fakeStockRepo struct{ s *memStore }

func (r fakeStockRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	st, ok := r.s.stocks[stockKey{productID, warehouseID}]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r fakeStockRepo) Create(_ context.Context, st *entity.StockRecord) error {
	k := stockKey{st.ProductID, st.WarehouseID}
	if _, ok := r.s.stocks[k]; ok {
		return errors.New("duplicate stock")
	}
	r.s.stocks[k] = *st
	return nil
}

func (r fakeStockRepo) Update(_ context.Context, st *entity.StockRecord) error {
	r.s.stocks[stockKey{st.ProductID, st.WarehouseID}] = *st
	return nil
}

func (r fakeStockRepo) ListByProducts(_ context.Context, _ []string) ([]*entity.StockRecord, error) {
	return nil, nil
}

type fakeHistoryRepo struct{ s *memStore }

func (r fakeHistoryRepo) Create(_ context.Context, e *entity.StockHistoryEntry) error {
	r.s.history = append(r.s.history, *e)
	return nil
}

func (r fakeHistoryRepo) List(_ context.Context, _ entity.StockHistoryFilter) ([]*entity.StockHistoryEntry, int, error) {
	return nil, 0, nil
}

// fakeTxRunner confirma si fn termina bien y restaura la foto previa si falla.
type fakeTxRunner struct {
	s    *memStore
	runs int
}

func (f *fakeTxRunner) RunOrder(_ context.Context, fn func(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	stockRepo repository.StockRepository,
	historyRepo repository.StockHistoryRepository,
) error) error {
	f.runs++
	before := f.s.snapshot()
	if err := fn(fakeOrderRepo{f.s}, fakeItemRepo{f.s}, fakeStockRepo{f.s}, fakeHistoryRepo{f.s}); err != nil {
		f.s.restore(before)
		return err
	}
	return nil
}

type fakeProductRepo struct{ known map[string]bool }

func (r fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if !r.known[id] {
		return nil, nil
	}
	return &entity.Product{ID: id, Name: id}, nil
}

func (r fakeProductRepo) MissingIDs(_ context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		if !r.known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r fakeProductRepo) List(_ context.Context, _, _ int) ([]*entity.Product, int, error) {
	return nil, 0, nil
}

type fakeWarehouseRepo struct{ known map[string]bool }

func (r fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if !r.known[id] {
		return nil, nil
	}
	return &entity.Warehouse{ID: id, Name: id}, nil
}

func (r fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]*entity.Warehouse, int, error) {
	return nil, 0, nil
}
