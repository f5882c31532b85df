package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar existencias por producto+bodega.
// Las escrituras se usan siempre dentro de una transacción para garantizar consistencia.
type StockRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil, nil si no existe registro.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockRecord, error)
	Create(ctx context.Context, stock *entity.StockRecord) error
	Update(ctx context.Context, stock *entity.StockRecord) error
	ListByProducts(ctx context.Context, productIDs []string) ([]*entity.StockRecord, error)
}
