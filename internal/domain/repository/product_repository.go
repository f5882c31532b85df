package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ProductRepository consultas de solo lectura sobre el catálogo.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// MissingIDs devuelve los IDs de la lista que no existen en el catálogo.
	MissingIDs(ctx context.Context, ids []string) ([]string, error)
	// List ordena por nombre; devuelve la página y el total.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int, error)
}
