package dto

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
