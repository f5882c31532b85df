package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stocks/adjustments.
// Delta positivo: entrada a bodega; negativo: salida.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Delta       int    `json:"delta" validate:"ne=0,min=-2147483647,max=2147483647"`
}

// StockResponse existencia de un producto en una bodega.
type StockResponse struct {
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Stock       int       `json:"stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductStockResponse producto con sus existencias por bodega.
type ProductStockResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Stocks []StockResponse `json:"stocks"`
}

// ProductStockListResponse lista paginada para GET /api/product-stocks.
type ProductStockListResponse struct {
	Items []ProductStockResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// StockHistoryQuery filtros de GET /api/stock-history. Fechas en formato YYYY-MM-DD.
type StockHistoryQuery struct {
	ProductID   string `query:"product_id"`
	WarehouseID string `query:"warehouse_id"`
	Date        string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	DateSince   string `query:"date_since" validate:"omitempty,datetime=2006-01-02"`
	DateUntil   string `query:"date_until" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// StockHistoryEntryResponse entrada del historial.
type StockHistoryEntryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Stock       int       `json:"stock"`
	Date        time.Time `json:"date"`
}

// StockHistoryListResponse lista paginada del historial.
type StockHistoryListResponse struct {
	Items []StockHistoryEntryResponse `json:"items"`
	Page  PageResponse                `json:"page"`
}
