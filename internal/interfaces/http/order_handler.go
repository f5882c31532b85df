package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderService operaciones del ciclo de vida que expone el handler. La implementa *order.LifecycleUseCase.
type OrderService interface {
	Create(ctx context.Context, in order.CreateOrderInput) (*entity.Order, error)
	UpdateItems(ctx context.Context, id string, in order.UpdateOrderInput) (*entity.Order, error)
	Complete(ctx context.Context, id string) (*entity.Order, error)
	Cancel(ctx context.Context, id string) (*entity.Order, error)
	Restore(ctx context.Context, id string) (*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, int, error)
}

var _ OrderService = (*order.LifecycleUseCase)(nil)

// OrderHandler maneja las peticiones HTTP de pedidos.
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Param        customer      query  string  false  "Coincidencia parcial de cliente"
// @Param        status        query  string  false  "active | completed | cancelled"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Tamaño de página (máx. 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	q.DefaultPage()
	orders, total, err := h.svc.List(c.UserContext(), entity.OrderFilter{
		Customer:    q.Customer,
		Status:      entity.OrderStatus(q.Status),
		WarehouseID: q.WarehouseID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order.ToOrderListResponse(orders, total, q.Limit, q.Offset))
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order.ToOrderResponse(o))
}

// Create godoc
// @Summary      Crear pedido
// @Description  Crea el pedido activo y retira de la bodega todas sus cantidades en una transacción.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer, warehouse_id, products"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	o, err := h.svc.Create(c.UserContext(), order.CreateInputFromRequest(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order.ToOrderResponse(o))
}

// Update godoc
// @Summary      Reemplazar contenido del pedido
// @Description  Aplica a la bodega solo la diferencia entre el contenido anterior y el nuevo.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "customer (opcional), products"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	o, err := h.svc.UpdateItems(c.UserContext(), c.Params("id"), order.UpdateInputFromRequest(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order.ToOrderResponse(o))
}

// Complete godoc
// @Summary      Completar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [put]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Complete)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Devuelve a la bodega todo el contenido del pedido.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Cancel)
}

// Restore godoc
// @Summary      Reactivar pedido
// @Description  Desde cancelado vuelve a retirar el contenido; responde 409 si ya no alcanza.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/restore [put]
func (h *OrderHandler) Restore(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Restore)
}

func (h *OrderHandler) transition(c *fiber.Ctx, op func(context.Context, string) (*entity.Order, error)) error {
	o, err := op(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(order.ToOrderResponse(o))
}
