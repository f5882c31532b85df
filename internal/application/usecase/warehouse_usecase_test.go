package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

type mockWarehouseRepo struct{ mock.Mock }

func (m *mockWarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Warehouse), args.Int(1), args.Error(2)
}

func TestWarehouseUseCase_ListAplicaPaginaPorDefecto(t *testing.T) {
	repo := new(mockWarehouseRepo)
	repo.On("List", mock.Anything, 20, 0).Return([]*entity.Warehouse{
		{ID: "w1", Name: "Central"},
		{ID: "w2", Name: "Norte"},
	}, 2, nil)

	out, err := NewWarehouseUseCase(repo).List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, []dto.WarehouseResponse{{ID: "w1", Name: "Central"}, {ID: "w2", Name: "Norte"}}, out.Items)
	assert.Equal(t, dto.PageResponse{Limit: 20, Offset: 0, Total: 2}, out.Page)
	repo.AssertExpectations(t)
}

func TestWarehouseUseCase_ListPropagaError(t *testing.T) {
	repo := new(mockWarehouseRepo)
	boom := errors.New("conexión perdida")
	repo.On("List", mock.Anything, 100, 5).Return(nil, 0, boom)

	_, err := NewWarehouseUseCase(repo).List(context.Background(), dto.PageRequest{Limit: 500, Offset: 5})
	assert.ErrorIs(t, err, boom)
}
