package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. Inmutable para el motor de pedidos.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal // NUMERIC(12,2)
}
