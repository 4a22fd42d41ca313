package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketbay/shopfront/pkg"
	middleware "github.com/marketbay/shopfront/pkg/middlewares"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubWebhookService struct {
	handleFn func(signature string, rawBody []byte, payload map[string]interface{}) (string, error)
}

func (s *stubWebhookService) HandleGatewayEvent(_ context.Context, _, signature string, rawBody []byte, payload map[string]interface{}) (string, error) {
	return s.handleFn(signature, rawBody, payload)
}

func newPaymentRouter(svc services.WebhookService, relay services.Relay, limiter *pkg.DistributedLimiter, waitTTL time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.TraceID(zap.NewNop()))
	NewPaymentHandler(zap.NewNop(), svc, relay, limiter, waitTTL).RegisterRoutes(api)
	return r
}

func unlimited() *pkg.DistributedLimiter {
	return pkg.NewDistributedLimiter(nil, "test:webhook", 0, 0, time.Second, zap.NewNop())
}

func TestWebhook_Success(t *testing.T) {
	var gotPayload map[string]interface{}
	svc := &stubWebhookService{
		handleFn: func(signature string, rawBody []byte, payload map[string]interface{}) (string, error) {
			gotPayload = payload
			return "ORD1001", nil
		},
	}
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(svc, relay, unlimited(), time.Minute)

	body := []byte(`{"description":"Payment for ORD1001","gateway":"vnpay"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Payment for ORD1001", gotPayload["description"])

	var out pkg.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, true, out.Data["success"])
	assert.Equal(t, "ORD1001", out.Data["orderCode"])
}

func TestWebhook_InvalidJSON(t *testing.T) {
	svc := &stubWebhookService{
		handleFn: func(string, []byte, map[string]interface{}) (string, error) {
			t.Fatal("service must not be called for malformed bodies")
			return "", nil
		},
	}
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(svc, relay, unlimited(), time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_MissingOrderCode(t *testing.T) {
	svc := &stubWebhookService{
		handleFn: func(string, []byte, map[string]interface{}) (string, error) {
			return "", pkg.NewAppError(pkg.ErrOrderCodeMissing, "order code not found in payload", pkg.ErrNoOrderCode)
		},
	}
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(svc, relay, unlimited(), time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader([]byte(`{"amount":5}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var out pkg.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "BUSINESS_ORDER_CODE_MISSING", out.Code)
}

func TestWebhook_UnknownOrder(t *testing.T) {
	svc := &stubWebhookService{
		handleFn: func(string, []byte, map[string]interface{}) (string, error) {
			return "", pkg.NewAppError(pkg.ErrRecordNotFoundCode, "no records found", nil)
		},
	}
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(svc, relay, unlimited(), time.Minute)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader([]byte(`{"description":"ORD404"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhook_RateLimited(t *testing.T) {
	svc := &stubWebhookService{
		handleFn: func(string, []byte, map[string]interface{}) (string, error) {
			return "ORD1001", nil
		},
	}
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	// Burst of one: the second request in the same instant is rejected.
	limiter := pkg.NewDistributedLimiter(nil, "test:webhook", 1, 1, time.Second, zap.NewNop())
	r := newPaymentRouter(svc, relay, limiter, time.Minute)

	body := []byte(`{"description":"ORD1001"}`)
	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader(body)))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/payment-webhook", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestStream_DeliversPaymentEvent(t *testing.T) {
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(&stubWebhookService{}, relay, unlimited(), time.Minute)

	// Publish once the stream handler has registered its waiter.
	go func() {
		event := pkgviews.PaymentEvent{
			EventID:   "evt-1",
			OrderID:   "ord-1",
			OrderCode: "ORD1001",
			Status:    pkg.OrderStatusSuccess,
			Amount:    100000,
		}
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if relay.Publish(event) > 0 {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-events?orderCode=ORD1001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event:payment")
	assert.Contains(t, w.Body.String(), "ORD1001")
	assert.Contains(t, w.Body.String(), "SUCCESS")
}

func TestStream_TimesOutWithoutEvent(t *testing.T) {
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(&stubWebhookService{}, relay, unlimited(), 50*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-events?orderCode=ORD1001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event:timeout")
}

func TestStream_RequiresOrderCode(t *testing.T) {
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(&stubWebhookService{}, relay, unlimited(), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrigger_ResolvesWaiters(t *testing.T) {
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(&stubWebhookService{}, relay, unlimited(), time.Minute)

	ch, cancel := relay.Subscribe("ORD1001")
	defer cancel()

	w := postJSON(t, r, "/api/v1/payment-events", map[string]interface{}{"orderCode": "ORD1001"})

	assert.Equal(t, http.StatusOK, w.Code)

	var out pkg.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, float64(1), out.Data["delivered"])

	select {
	case event := <-ch:
		assert.Equal(t, "ORD1001", event.OrderCode)
		assert.Equal(t, pkg.OrderStatusSuccess, event.Status)
	case <-time.After(time.Second):
		t.Fatal("waiter must receive the manually triggered event")
	}
}

func TestTrigger_RequiresOrderCode(t *testing.T) {
	relay := services.NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()
	r := newPaymentRouter(&stubWebhookService{}, relay, unlimited(), time.Minute)

	w := postJSON(t, r, "/api/v1/payment-events", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
