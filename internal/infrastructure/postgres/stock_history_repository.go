package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo historial append-only de existencias.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Create inserta una entrada.
func (r *StockHistoryRepo) Create(ctx context.Context, e *entity.StockHistoryEntry) error {
	query := `
		INSERT INTO stock_history_entries (id, product_id, warehouse_id, quantity, date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ProductID, e.WarehouseID, e.Quantity, e.Date)
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	return nil
}

// List filtra por producto, bodega e intervalo [From, To). Más recientes primero.
func (r *StockHistoryRepo) List(ctx context.Context, f entity.StockHistoryFilter) ([]*entity.StockHistoryEntry, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date < $%d", *f.To)
	}
	args = append(args, f.Limit, f.Offset)

	query := `
		SELECT id, product_id, warehouse_id, quantity, date, COUNT(*) OVER() AS total
		FROM stock_history_entries` + whereClause(conds) + fmt.Sprintf(`
		ORDER BY date DESC, id DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()
	var (
		list  []*entity.StockHistoryEntry
		total int
	)
	for rows.Next() {
		var e entity.StockHistoryEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.WarehouseID, &e.Quantity, &e.Date, &total); err != nil {
			return nil, 0, fmt.Errorf("scan stock history: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
