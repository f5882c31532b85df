package order

import (
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// CreateInputFromRequest traduce el body HTTP al input del caso de uso.
func CreateInputFromRequest(req dto.CreateOrderRequest) CreateOrderInput {
	return CreateOrderInput{
		Customer:    req.Customer,
		WarehouseID: req.WarehouseID,
		Items:       itemsFromRequest(req.Products),
	}
}

// UpdateInputFromRequest traduce el body HTTP de actualización.
func UpdateInputFromRequest(req dto.UpdateOrderRequest) UpdateOrderInput {
	return UpdateOrderInput{
		Customer: req.Customer,
		Items:    itemsFromRequest(req.Products),
	}
}

func itemsFromRequest(products []dto.OrderProductRequest) []ItemInput {
	items := make([]ItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, ItemInput{ProductID: p.ID, Count: p.Count})
	}
	return items
}

// ToOrderResponse convierte la entidad a la salida HTTP.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{ProductID: it.ProductID, Count: it.Count})
	}
	return dto.OrderResponse{
		ID:          o.ID,
		Customer:    o.Customer,
		WarehouseID: o.WarehouseID,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
		Items:       items,
	}
}

// ToOrderListResponse arma la página de pedidos.
func ToOrderListResponse(orders []*entity.Order, total, limit, offset int) dto.OrderListResponse {
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, o := range orders {
		out.Items = append(out.Items, ToOrderResponse(o))
	}
	return out
}
