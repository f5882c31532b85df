package entity

import "time"

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

// Estados de pedido.
const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid indica si el estado es uno de los conocidos.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusActive, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// HoldsStock indica si un pedido en este estado mantiene retiradas sus cantidades de la bodega.
// Activos y completados las retienen; los cancelados ya las devolvieron.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusActive || s == OrderStatusCompleted
}

// Order pedido de un cliente despachado desde una bodega.
type Order struct {
	ID          string
	Customer    string
	CreatedAt   time.Time
	CompletedAt *time.Time
	WarehouseID string
	Status      OrderStatus
	Items       []OrderItem
}

// OrderItem línea de pedido. Count siempre es >= 1; una cantidad cero se representa con la ausencia de la línea.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Count     int
}

// OrderFilter criterios del listado de pedidos.
type OrderFilter struct {
	Customer    string // coincidencia parcial, sin distinguir mayúsculas
	Status      OrderStatus
	WarehouseID string
	Limit       int
	Offset      int
}
