package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para la cabecera de pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el pedido con sus líneas, o nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido y carga sus líneas. nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste customer, status y completed_at.
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int, error)
}

// OrderItemRepository define el puerto de persistencia para las líneas de pedido.
type OrderItemRepository interface {
	Create(ctx context.Context, item *entity.OrderItem) error
	UpdateCount(ctx context.Context, id string, count int) error
	Delete(ctx context.Context, id string) error
}
