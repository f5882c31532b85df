package dto

import "time"

// OrderProductRequest línea de pedido en los cuerpos de creación/actualización.
// En una actualización count 0 elimina la línea; al crear debe ser >= 1.
type OrderProductRequest struct {
	ID    string `json:"id" validate:"required"`
	Count int    `json:"count" validate:"min=0,max=2147483647"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	Customer    string                `json:"customer" validate:"required,max=255"`
	WarehouseID string                `json:"warehouse_id" validate:"required"`
	Products    []OrderProductRequest `json:"products" validate:"required,min=1,dive"`
}

// UpdateOrderRequest body para PUT /api/orders/:id. Los productos omitidos se eliminan del pedido.
type UpdateOrderRequest struct {
	Customer *string               `json:"customer" validate:"omitempty,min=1,max=255"`
	Products []OrderProductRequest `json:"products" validate:"required,min=1,dive"`
}

// OrderListQuery filtros de GET /api/orders.
type OrderListQuery struct {
	Customer    string `query:"customer"`
	Status      string `query:"status" validate:"omitempty,oneof=active completed cancelled"`
	WarehouseID string `query:"warehouse_id"`
	PageRequest
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Count     int    `json:"count"`
}

// OrderResponse salida de un pedido con sus líneas.
type OrderResponse struct {
	ID          string              `json:"id"`
	Customer    string              `json:"customer"`
	WarehouseID string              `json:"warehouse_id"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at"`
	Items       []OrderItemResponse `json:"items"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
