package entity

import "time"

// StockRecord es la existencia de un producto en una bodega.
// Existe como máximo un registro por par (ProductID, WarehouseID); Quantity nunca es negativo.
type StockRecord struct {
	ID          string
	ProductID   string
	WarehouseID string
	Quantity    int
	UpdatedAt   time.Time
}

// ProductStock agrupa un producto con sus existencias por bodega (vista de lectura).
type ProductStock struct {
	Product Product
	Stocks  []StockRecord
}
