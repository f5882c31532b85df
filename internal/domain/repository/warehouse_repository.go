package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// WarehouseRepository consultas de solo lectura sobre bodegas.
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// List ordena por nombre; devuelve la página y el total.
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, int, error)
}
