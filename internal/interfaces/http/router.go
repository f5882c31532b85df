package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orders     OrderService
	Warehouses WarehouseService
	Products   ProductStockService
	History    StockHistoryService
	Stocks     StockService
	// JWTSecret vacío deja las rutas de escritura sin autenticación (desarrollo).
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API. Las lecturas son públicas; las escrituras requieren
// Bearer Token cuando hay JWTSecret configurado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	orderHandler := NewOrderHandler(deps.Orders)
	warehouseHandler := NewWarehouseHandler(deps.Warehouses)
	stockHandler := NewStockHandler(deps.Stocks, deps.Products, deps.History)

	// Lecturas
	api.Get("/warehouses", warehouseHandler.List)
	api.Get("/product-stocks", stockHandler.ListProductStocks)
	api.Get("/stock-history", stockHandler.ListHistory)
	api.Get("/orders", orderHandler.List)
	api.Get("/orders/:id", orderHandler.GetByID)

	// Escrituras
	writer := guard(deps, jwt.RoleAdmin, jwt.RoleOperator)
	api.Post("/orders", with(writer, orderHandler.Create)...)
	api.Put("/orders/:id", with(writer, orderHandler.Update)...)
	api.Put("/orders/:id/complete", with(writer, orderHandler.Complete)...)
	api.Put("/orders/:id/cancel", with(writer, orderHandler.Cancel)...)
	api.Put("/orders/:id/restore", with(writer, orderHandler.Restore)...)

	admin := guard(deps, jwt.RoleAdmin)
	api.Post("/stocks/adjustments", with(admin, stockHandler.Adjust)...)
}

func guard(deps RouterDeps, roles ...string) []fiber.Handler {
	if deps.JWTSecret == "" {
		return nil
	}
	return []fiber.Handler{AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireRole(roles...)}
}

func with(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
