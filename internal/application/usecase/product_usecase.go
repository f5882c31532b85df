package usecase

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ProductUseCase consultas del catálogo con sus existencias por bodega.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo}
}

// ListWithStocks devuelve la página de productos (por nombre) y, para cada uno, su existencia en cada bodega
// donde tiene registro. Una sola consulta de existencias por página.
func (uc *ProductUseCase) ListWithStocks(ctx context.Context, page dto.PageRequest) (*dto.ProductStockListResponse, error) {
	page.DefaultPage()
	products, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	byProduct := map[string][]dto.StockResponse{}
	if len(ids) > 0 {
		stocks, err := uc.stockRepo.ListByProducts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, s := range stocks {
			byProduct[s.ProductID] = append(byProduct[s.ProductID], toStockResponse(s))
		}
	}

	items := make([]dto.ProductStockResponse, 0, len(products))
	for _, p := range products {
		stocks := byProduct[p.ID]
		if stocks == nil {
			stocks = []dto.StockResponse{}
		}
		items = append(items, dto.ProductStockResponse{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Stocks: stocks,
		})
	}
	return &dto.ProductStockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ToStockResponse convierte un registro de existencias a la salida HTTP.
func ToStockResponse(s *entity.StockRecord) dto.StockResponse {
	return toStockResponse(s)
}

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Stock:       s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}
