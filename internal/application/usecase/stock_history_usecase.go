package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// StockHistoryUseCase consulta del historial de existencias.
type StockHistoryUseCase struct {
	repo repository.StockHistoryRepository
}

// NewStockHistoryUseCase construye el caso de uso.
func NewStockHistoryUseCase(repo repository.StockHistoryRepository) *StockHistoryUseCase {
	return &StockHistoryUseCase{repo: repo}
}

// List filtra por producto, bodega y fechas. "date" selecciona un día completo; date_since y
// date_until acotan un rango donde ambos días se incluyen completos. Más recientes primero.
func (uc *StockHistoryUseCase) List(ctx context.Context, q dto.StockHistoryQuery) (*dto.StockHistoryListResponse, error) {
	q.DefaultPage()
	filter, err := BuildHistoryFilter(q)
	if err != nil {
		return nil, err
	}

	entries, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockHistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.StockHistoryEntryResponse{
			ID:          e.ID,
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			Stock:       e.Quantity,
			Date:        e.Date,
		})
	}
	return &dto.StockHistoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// BuildHistoryFilter traduce la consulta HTTP a un filtro de intervalo [From, To).
// Las fechas se interpretan en UTC.
func BuildHistoryFilter(q dto.StockHistoryQuery) (entity.StockHistoryFilter, error) {
	f := entity.StockHistoryFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	if q.Date != "" {
		day, err := parseDay("date", q.Date)
		if err != nil {
			return f, err
		}
		next := day.AddDate(0, 0, 1)
		f.From, f.To = &day, &next
	}
	if q.DateSince != "" {
		since, err := parseDay("date_since", q.DateSince)
		if err != nil {
			return f, err
		}
		if f.From == nil || since.After(*f.From) {
			f.From = &since
		}
	}
	if q.DateUntil != "" {
		until, err := parseDay("date_until", q.DateUntil)
		if err != nil {
			return f, err
		}
		end := until.AddDate(0, 0, 1)
		if f.To == nil || end.Before(*f.To) {
			f.To = &end
		}
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, fmt.Errorf("%w: rango de fechas vacío", domain.ErrInvalidInput)
	}
	return f, nil
}

func parseDay(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}
