package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	middleware "github.com/marketbay/shopfront/pkg/middlewares"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubOrderService struct {
	createFn func(req views.CreateOrderRequest) (pkgviews.OrderView, error)
	getFn    func(orderID uuid.UUID) (pkgviews.OrderView, error)
	byCodeFn func(code string) (pkgviews.OrderView, error)
	listFn   func(userID uuid.UUID, limit, offset int) ([]pkgviews.OrderView, error)
}

func (s *stubOrderService) CreateOrder(_ context.Context, _ string, req views.CreateOrderRequest) (pkgviews.OrderView, error) {
	return s.createFn(req)
}

func (s *stubOrderService) GetOrder(_ context.Context, _ string, orderID uuid.UUID) (pkgviews.OrderView, error) {
	return s.getFn(orderID)
}

func (s *stubOrderService) GetOrderByCode(_ context.Context, _, code string) (pkgviews.OrderView, error) {
	return s.byCodeFn(code)
}

func (s *stubOrderService) ListOrders(_ context.Context, _ string, userID uuid.UUID, limit, offset int) ([]pkgviews.OrderView, error) {
	return s.listFn(userID, limit, offset)
}

func newOrderRouter(svc *stubOrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.TraceID(zap.NewNop()))
	NewOrderHandler(zap.NewNop(), svc).RegisterRoutes(api)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validOrderPayload() map[string]interface{} {
	return map[string]interface{}{
		"amount":      100000,
		"customerId":  uuid.New().String(),
		"addressId":   uuid.New().String(),
		"description": "two shirts",
		"products": []map[string]interface{}{
			{"id": uuid.New().String(), "quantity": 2},
		},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(req views.CreateOrderRequest) (pkgviews.OrderView, error) {
			assert.Equal(t, int64(100000), req.Amount)
			assert.Len(t, req.Products, 1)
			return pkgviews.OrderView{
				ID:        uuid.New().String(),
				OrderCode: "ORD1001",
				Amount:    req.Amount,
				Status:    "PENDING",
			}, nil
		},
	}
	r := newOrderRouter(svc)

	w := postJSON(t, r, "/api/v1/orders", validOrderPayload())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))

	var out pkg.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	order, ok := out.Data["order"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "ORD1001", order["orderCode"])
	assert.Equal(t, "PENDING", order["status"])
}

func TestCreateOrder_InvalidBody(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(views.CreateOrderRequest) (pkgviews.OrderView, error) {
			t.Fatal("service must not be called for invalid payloads")
			return pkgviews.OrderView{}, nil
		},
	}
	r := newOrderRouter(svc)

	// Missing products and negative amount.
	w := postJSON(t, r, "/api/v1/orders", map[string]interface{}{
		"amount":     -5,
		"customerId": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var out pkg.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, pkg.ErrInvalidInputCode.Code, out.Code)
	assert.NotEmpty(t, out.Details)
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(views.CreateOrderRequest) (pkgviews.OrderView, error) {
			return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrOutOfStockCode, "insufficient stock for product x", pkg.ErrOutOfStock)
		},
	}
	r := newOrderRouter(svc)

	w := postJSON(t, r, "/api/v1/orders", validOrderPayload())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var out pkg.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "BUSINESS_OUT_OF_STOCK", out.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	r := newOrderRouter(&stubOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := &stubOrderService{
		getFn: func(uuid.UUID) (pkgviews.OrderView, error) {
			return pkgviews.OrderView{}, pkg.NewAppError(pkg.ErrRecordNotFoundCode, "no records found", nil)
		},
	}
	r := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderByCode(t *testing.T) {
	svc := &stubOrderService{
		byCodeFn: func(code string) (pkgviews.OrderView, error) {
			assert.Equal(t, "ORD1001", code)
			return pkgviews.OrderView{OrderCode: code, Status: "SUCCESS"}, nil
		},
	}
	r := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/code/ORD1001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ORD1001")
}

func TestListOrders_RequiresCustomerID(t *testing.T) {
	r := newOrderRouter(&stubOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrders_PassesPagination(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrderService{
		listFn: func(gotUser uuid.UUID, limit, offset int) ([]pkgviews.OrderView, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, 5, limit)
			assert.Equal(t, 10, offset)
			return []pkgviews.OrderView{{OrderCode: "ORD1001"}}, nil
		},
	}
	r := newOrderRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?customerId="+userID.String()+"&limit=5&offset=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
