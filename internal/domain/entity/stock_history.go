package entity

import "time"

// StockHistoryEntry es un registro inmutable del historial de movimientos.
// Quantity es la existencia resultante después de la mutación, no el delta.
type StockHistoryEntry struct {
	ID          string
	ProductID   string
	WarehouseID string
	Date        time.Time
	Quantity    int
}

// StockHistoryFilter criterios de consulta del historial. Los campos vacíos no filtran.
type StockHistoryFilter struct {
	ProductID   string
	WarehouseID string
	From        *time.Time // inclusivo
	To          *time.Time // exclusivo
	Limit       int
	Offset      int
}
