package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// ErrConcurrentStockInsert otra transacción creó el mismo par (producto, bodega) primero.
// La operación completa puede reintentarse.
var ErrConcurrentStockInsert = errors.New("stock creado concurrentemente")

const stockColumns = `id, product_id, warehouse_id, quantity, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Create inserta el registro del par. Falla si el par ya existe (UNIQUE product_id, warehouse_id).
func (r *StockRepo) Create(ctx context.Context, s *entity.StockRecord) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, s.ID, s.ProductID, s.WarehouseID, s.Quantity, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create stock %s/%s: %w", s.ProductID, s.WarehouseID, ErrConcurrentStockInsert)
		}
		return fmt.Errorf("create stock: %w", err)
	}
	return nil
}

// Update persiste la cantidad de un registro existente.
func (r *StockRepo) Update(ctx context.Context, s *entity.StockRecord) error {
	query := `UPDATE stocks SET quantity = $2, updated_at = $3 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Quantity, s.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update stock %s: cantidad negativa: %w", s.ID, err)
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update stock %s: fila inexistente", s.ID)
	}
	return nil
}

// ListByProducts existencias de los productos dados en todas las bodegas.
func (r *StockRepo) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stocks WHERE product_id = ANY($1)
		ORDER BY product_id, warehouse_id`
	rows, err := r.q.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
