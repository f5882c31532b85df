package entity

// Warehouse representa una bodega desde la que se despachan los pedidos.
type Warehouse struct {
	ID   string
	Name string
}
