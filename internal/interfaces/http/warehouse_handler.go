package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
)

// WarehouseService listado de bodegas.
type WarehouseService interface {
	List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error)
}

// WarehouseHandler maneja las peticiones HTTP para bodegas.
type WarehouseHandler struct {
	svc WarehouseService
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(svc WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// List godoc
// @Summary      Listar bodegas
// @Tags         warehouses
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (máx. 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.svc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
