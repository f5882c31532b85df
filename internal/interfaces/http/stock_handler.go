package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// StockService consultas y ajustes de existencias usados por el handler.
type StockService interface {
	AdjustStock(ctx context.Context, in inventory.AdjustStockInput) (*entity.StockRecord, error)
}

// ProductStockService listado de productos con existencias.
type ProductStockService interface {
	ListWithStocks(ctx context.Context, page dto.PageRequest) (*dto.ProductStockListResponse, error)
}

// StockHistoryService consulta del historial.
type StockHistoryService interface {
	List(ctx context.Context, q dto.StockHistoryQuery) (*dto.StockHistoryListResponse, error)
}

// StockHandler maneja existencias, su historial y los ajustes manuales.
type StockHandler struct {
	adjust   StockService
	products ProductStockService
	history  StockHistoryService
}

// NewStockHandler construye el handler.
func NewStockHandler(adjust StockService, products ProductStockService, history StockHistoryService) *StockHandler {
	return &StockHandler{adjust: adjust, products: products, history: history}
}

// ListProductStocks godoc
// @Summary      Productos con existencias por bodega
// @Tags         stocks
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (máx. 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductStockListResponse
// @Router       /api/product-stocks [get]
func (h *StockHandler) ListProductStocks(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.products.ListWithStocks(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListHistory godoc
// @Summary      Historial de existencias
// @Description  Filtra por producto, bodega y fechas (YYYY-MM-DD). date_until incluye el día completo.
// @Tags         stocks
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        date          query  string  false  "Un solo día"
// @Param        date_since    query  string  false  "Desde (inclusive)"
// @Param        date_until    query  string  false  "Hasta (inclusive)"
// @Success      200  {object}  dto.StockHistoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-history [get]
func (h *StockHandler) ListHistory(c *fiber.Ctx) error {
	var q dto.StockHistoryQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.history.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de existencias
// @Description  Delta positivo ingresa mercancía; negativo la retira (409 si no alcanza).
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, delta"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stocks/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	stock, err := h.adjust.AdjustStock(c.UserContext(), inventory.AdjustStockInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToStockResponse(stock))
}
