package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)
var _ repository.OrderItemRepository = (*OrderItemRepo)(nil)

const orderColumns = `id, customer, warehouse_id, status, created_at, completed_at`

// OrderRepo cabeceras de pedido sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera; las líneas se crean con OrderItemRepo.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, o.ID, o.Customer, o.WarehouseID, string(o.Status), o.CreatedAt, o.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE) y carga sus líneas.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var o entity.Order
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Customer, &o.WarehouseID, &status, &o.CreatedAt, &o.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = entity.OrderStatus(status)

	items, err := r.itemsByOrders(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// Update persiste customer, status y completed_at.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `UPDATE orders SET customer = $2, status = $3, completed_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, o.ID, o.Customer, string(o.Status), o.CompletedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: fila inexistente", o.ID)
	}
	return nil
}

// List filtra por cliente (parcial, sin mayúsculas), estado y bodega. Más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Customer != "" {
		add(`customer ILIKE '%%' || $%d || '%%' ESCAPE '\'`, likeEscaper.Replace(f.Customer))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	args = append(args, f.Limit, f.Offset)

	query := `
		SELECT ` + orderColumns + `, COUNT(*) OVER() AS total
		FROM orders` + whereClause(conds) + fmt.Sprintf(`
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var (
		list  []*entity.Order
		ids   []string
		total int
	)
	for rows.Next() {
		var o entity.Order
		var status string
		if err := rows.Scan(&o.ID, &o.Customer, &o.WarehouseID, &status, &o.CreatedAt, &o.CompletedAt, &total); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		o.Status = entity.OrderStatus(status)
		list = append(list, &o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if len(ids) == 0 {
		return list, total, nil
	}

	items, err := r.itemsByOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		o.Items = items[o.ID]
	}
	return list, total, nil
}

func (r *OrderRepo) itemsByOrders(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, count
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, product_id`
	rows, err := r.q.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Count); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// OrderItemRepo líneas de pedido (usable con pool o tx).
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

// Create inserta una línea. UNIQUE(order_id, product_id).
func (r *OrderItemRepo) Create(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, count)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, it.ID, it.OrderID, it.ProductID, it.Count)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert order item: producto %s duplicado en pedido %s: %w", it.ProductID, it.OrderID, err)
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// UpdateCount cambia la cantidad de una línea.
func (r *OrderItemRepo) UpdateCount(ctx context.Context, id string, count int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE order_items SET count = $2 WHERE id = $1`, id, count)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update order item %s: fila inexistente", id)
	}
	return nil
}

// Delete elimina una línea.
func (r *OrderItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order item: %w", err)
	}
	return nil
}
