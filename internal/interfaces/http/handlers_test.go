package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Pedidos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mocks de servicios
// ──────────────────────────────────────────────────────────────────────────────

type mockOrders struct{ mock.Mock }

func (m *mockOrders) result(args mock.Arguments) (*entity.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *mockOrders) Create(ctx context.Context, in order.CreateOrderInput) (*entity.Order, error) {
	return m.result(m.Called(ctx, in))
}

func (m *mockOrders) UpdateItems(ctx context.Context, id string, in order.UpdateOrderInput) (*entity.Order, error) {
	return m.result(m.Called(ctx, id, in))
}

func (m *mockOrders) Complete(ctx context.Context, id string) (*entity.Order, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockOrders) Cancel(ctx context.Context, id string) (*entity.Order, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockOrders) Restore(ctx context.Context, id string) (*entity.Order, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockOrders) Get(ctx context.Context, id string) (*entity.Order, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockOrders) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.Order), args.Int(1), args.Error(2)
}

type mockStocks struct{ mock.Mock }

func (m *mockStocks) AdjustStock(ctx context.Context, in inventory.AdjustStockInput) (*entity.StockRecord, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StockRecord), args.Error(1)
}

type mockHistory struct{ mock.Mock }

func (m *mockHistory) List(ctx context.Context, q dto.StockHistoryQuery) (*dto.StockHistoryListResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(*dto.StockHistoryListResponse), args.Error(1)
}

type mockWarehouses struct{ mock.Mock }

func (m *mockWarehouses) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(*dto.WarehouseListResponse), args.Error(1)
}

type mockProducts struct{ mock.Mock }

func (m *mockProducts) ListWithStocks(ctx context.Context, page dto.PageRequest) (*dto.ProductStockListResponse, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(*dto.ProductStockListResponse), args.Error(1)
}

type apiFixture struct {
	app        *fiber.App
	orders     *mockOrders
	stocks     *mockStocks
	history    *mockHistory
	warehouses *mockWarehouses
	products   *mockProducts
}

func newAPI(jwtSecret string) *apiFixture {
	f := &apiFixture{
		app:        fiber.New(),
		orders:     new(mockOrders),
		stocks:     new(mockStocks),
		history:    new(mockHistory),
		warehouses: new(mockWarehouses),
		products:   new(mockProducts),
	}
	apphttp.Router(f.app, apphttp.RouterDeps{
		Orders:     f.orders,
		Warehouses: f.warehouses,
		Products:   f.products,
		History:    f.history,
		Stocks:     f.stocks,
		JWTSecret:  jwtSecret,
		JWTIssuer:  testIssuer,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, authHeader string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	var errBody dto.ErrorResponse
	if resp.StatusCode >= 400 {
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
	}
	return resp, errBody
}

func sampleOrder(status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:          "o1",
		Customer:    "Ana",
		CreatedAt:   time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC),
		WarehouseID: "w1",
		Status:      status,
		Items:       []entity.OrderItem{{ID: "i1", OrderID: "o1", ProductID: "p1", Count: 4}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_Create_201(t *testing.T) {
	api := newAPI("")
	api.orders.On("Create", mock.Anything, order.CreateOrderInput{
		Customer: "Ana", WarehouseID: "w1", Items: []order.ItemInput{{ProductID: "p1", Count: 4}},
	}).Return(sampleOrder(entity.OrderStatusActive), nil)

	resp, _ := api.do(t, http.MethodPost, "/api/orders", dto.CreateOrderRequest{
		Customer: "Ana", WarehouseID: "w1", Products: []dto.OrderProductRequest{{ID: "p1", Count: 4}},
	}, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "o1", out.ID)
	assert.Equal(t, "active", out.Status)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 4, out.Items[0].Count)
	api.orders.AssertExpectations(t)
}

func TestOrders_Create_ValidacionDelCuerpo(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodPost, "/api/orders", map[string]any{
		"warehouse_id": "w1", "products": []any{},
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	api.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrders_Create_StockInsuficiente_409ConDetalle(t *testing.T) {
	api := newAPI("")
	api.orders.On("Create", mock.Anything, mock.Anything).Return(nil, &domain.InsufficientStockError{
		ProductID: "p1", WarehouseID: "w1", Available: 2, Requested: 3,
	})

	resp, body := api.do(t, http.MethodPost, "/api/orders", dto.CreateOrderRequest{
		Customer: "Ana", WarehouseID: "w1", Products: []dto.OrderProductRequest{{ID: "p1", Count: 3}},
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	details, ok := body.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", details["product_id"])
	assert.EqualValues(t, 2, details["available"])
	assert.EqualValues(t, 3, details["requested"])
}

func TestOrders_Transiciones_MapeoDeErrores(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		method string
		err    error
		status int
		code   string
	}{
		{"cancel inexistente", "/api/orders/o1/cancel", "Cancel", &domain.NotFoundError{Entity: "order", ID: "o1"}, http.StatusNotFound, "NOT_FOUND"},
		{"restore sin stock", "/api/orders/o1/restore", "Restore", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"complete estado inválido", "/api/orders/o1/complete", "Complete", domain.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{"cancel error de BD", "/api/orders/o1/cancel", "Cancel", errors.New("conexión perdida"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newAPI("")
			api.orders.On(tt.method, mock.Anything, "o1").Return(nil, tt.err)

			resp, body := api.do(t, http.MethodPut, tt.path, nil, "")
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestOrders_Cancel_200(t *testing.T) {
	api := newAPI("")
	api.orders.On("Cancel", mock.Anything, "o1").Return(sampleOrder(entity.OrderStatusCancelled), nil)

	resp, _ := api.do(t, http.MethodPut, "/api/orders/o1/cancel", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.OrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "cancelled", out.Status)
}

func TestOrders_Update_CantidadCeroSePropaga(t *testing.T) {
	api := newAPI("")
	api.orders.On("UpdateItems", mock.Anything, "o1", order.UpdateOrderInput{
		Items: []order.ItemInput{{ProductID: "p1", Count: 4}, {ProductID: "p2", Count: 0}},
	}).Return(sampleOrder(entity.OrderStatusActive), nil)

	resp, _ := api.do(t, http.MethodPut, "/api/orders/o1", dto.UpdateOrderRequest{
		Products: []dto.OrderProductRequest{{ID: "p1", Count: 4}, {ID: "p2", Count: 0}},
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.orders.AssertExpectations(t)
}

func TestOrders_List_FiltrosYPaginacion(t *testing.T) {
	api := newAPI("")
	api.orders.On("List", mock.Anything, entity.OrderFilter{
		Customer: "an", Status: entity.OrderStatusActive, Limit: 20, Offset: 0,
	}).Return([]*entity.Order{sampleOrder(entity.OrderStatusActive)}, 1, nil)

	resp, _ := api.do(t, http.MethodGet, "/api/orders?customer=an&status=active", nil, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.OrderListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 1, out.Page.Total)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestOrders_List_EstadoDesconocido_400(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodGet, "/api/orders?status=shipped", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Existencias
// ──────────────────────────────────────────────────────────────────────────────

func TestStockHistory_FechaInvalida_400(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodGet, "/api/stock-history?date=05-06-2024", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	api.history.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestStockHistory_PasaFiltros(t *testing.T) {
	api := newAPI("")
	api.history.On("List", mock.Anything, mock.MatchedBy(func(q dto.StockHistoryQuery) bool {
		return q.ProductID == "p1" && q.DateUntil == "2024-06-05"
	})).Return(&dto.StockHistoryListResponse{Items: []dto.StockHistoryEntryResponse{}}, nil)

	resp, _ := api.do(t, http.MethodGet, "/api/stock-history?product_id=p1&date_until=2024-06-05", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.history.AssertExpectations(t)
}

func TestOrders_Create_CantidadSobreElMaximo_400(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodPost, "/api/orders", map[string]any{
		"customer": "Ana", "warehouse_id": "w1",
		"products": []any{map[string]any{"id": "p1", "count": 2147483648}},
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	api.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStocks_Adjust_DeltaFueraDeRango_400(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodPost, "/api/stocks/adjustments", map[string]any{
		"product_id": "p1", "warehouse_id": "w1", "delta": 2147483648,
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	api.stocks.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything)
}

func TestStocks_Adjust_DeltaCeroEsInvalido(t *testing.T) {
	api := newAPI("")

	resp, body := api.do(t, http.MethodPost, "/api/stocks/adjustments", dto.AdjustStockRequest{
		ProductID: "p1", WarehouseID: "w1", Delta: 0,
	}, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestWarehouses_List(t *testing.T) {
	api := newAPI("")
	api.warehouses.On("List", mock.Anything, dto.PageRequest{Limit: 5, Offset: 0}).
		Return(&dto.WarehouseListResponse{Items: []dto.WarehouseResponse{{ID: "w1", Name: "Central"}}}, nil)

	resp, _ := api.do(t, http.MethodGet, "/api/warehouses?limit=5", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	api.warehouses.AssertExpectations(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación opcional
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ConSecret_EscriturasRequierenToken(t *testing.T) {
	api := newAPI(testJWTSecret)

	resp, body := api.do(t, http.MethodPut, "/api/orders/o1/cancel", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
	api.orders.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestRouter_ConSecret_LecturasSonPublicas(t *testing.T) {
	api := newAPI(testJWTSecret)
	api.orders.On("Get", mock.Anything, "o1").Return(sampleOrder(entity.OrderStatusActive), nil)

	resp, _ := api.do(t, http.MethodGet, "/api/orders/o1", nil, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ConSecret_OperadorGestionaPedidos(t *testing.T) {
	api := newAPI(testJWTSecret)
	api.orders.On("Cancel", mock.Anything, "o1").Return(sampleOrder(entity.OrderStatusCancelled), nil)

	resp, _ := api.do(t, http.MethodPut, "/api/orders/o1/cancel", nil, tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ConSecret_AjusteSoloAdmin(t *testing.T) {
	api := newAPI(testJWTSecret)
	req := dto.AdjustStockRequest{ProductID: "p1", WarehouseID: "w1", Delta: 5}

	resp, body := api.do(t, http.MethodPost, "/api/stocks/adjustments", req, tokenForRole(t, pkgjwt.RoleOperator))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)

	api.stocks.On("AdjustStock", mock.Anything, inventory.AdjustStockInput{ProductID: "p1", WarehouseID: "w1", Delta: 5}).
		Return(&entity.StockRecord{ProductID: "p1", WarehouseID: "w1", Quantity: 5}, nil)
	resp2, _ := api.do(t, http.MethodPost, "/api/stocks/adjustments", req, tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
