package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"go.uber.org/zap"
)

// PaymentHandler owns the gateway-facing webhook and the payment-events
// stream the checkout page listens on.
type PaymentHandler struct {
	logger  *zap.Logger
	webhook services.WebhookService
	relay   services.Relay
	limiter *pkg.DistributedLimiter
	waitTTL time.Duration
}

func NewPaymentHandler(logger *zap.Logger, webhook services.WebhookService, relay services.Relay, limiter *pkg.DistributedLimiter, waitTTL time.Duration) *PaymentHandler {
	return &PaymentHandler{
		logger:  logger,
		webhook: webhook,
		relay:   relay,
		limiter: limiter,
		waitTTL: waitTTL,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/payment-webhook", h.Webhook)
	r.GET("/payment-events", h.Stream)
	r.POST("/payment-events", h.Trigger)
}

// Webhook accepts one payment-gateway callback. The body is read raw first so
// the HMAC signature covers the exact bytes the gateway signed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	if !h.limiter.Allow(c.Request.Context()) {
		c.JSON(http.StatusTooManyRequests, pkg.ErrorResponse{
			Code:    pkg.ErrTooManyRequests.Code,
			Message: "webhook rate limit exceeded",
		})
		return
	}

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "unreadable request body",
		})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid json payload",
		})
		return
	}

	signature := c.GetHeader(pkg.HeaderSignature)
	code, err := h.webhook.HandleGatewayEvent(c.Request.Context(), trace, signature, rawBody, payload)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}

	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"success":   true,
			"orderCode": code,
		},
	})
}

// Stream holds the connection open as a server-sent-events stream until the
// order's payment event arrives, the wait TTL passes, or the client leaves.
func (h *PaymentHandler) Stream(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	orderCode := c.Query("orderCode")
	if pkg.IsEmptyString(orderCode) {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "orderCode query parameter is required",
		})
		return
	}

	events, cancel := h.relay.Subscribe(orderCode)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	timeout := time.NewTimer(h.waitTTL)
	defer timeout.Stop()

	select {
	case event, open := <-events:
		if !open {
			// Relay expired or shut down before the event landed.
			c.SSEvent("timeout", gin.H{"orderCode": orderCode})
			c.Writer.Flush()
			return
		}
		c.SSEvent("payment", gin.H{
			"orderCode":     event.OrderCode,
			"orderId":       event.OrderID,
			"status":        event.Status,
			"amount":        event.Amount,
			"paymentMethod": event.PaymentMethod,
		})
		c.Writer.Flush()
		h.logger.Info("payment event streamed",
			zap.String(pkg.TraceId, trace),
			zap.String(pkg.OrderCode, orderCode))
	case <-timeout.C:
		cancel()
		c.SSEvent("timeout", gin.H{"orderCode": orderCode})
		c.Writer.Flush()
		h.logger.Debug("payment stream timed out",
			zap.String(pkg.TraceId, trace),
			zap.String(pkg.OrderCode, orderCode))
	case <-c.Request.Context().Done():
		cancel()
	}
}

// Trigger resolves waiting streams by hand. Support uses it when a gateway
// confirms payment out of band and the webhook never arrived.
func (h *PaymentHandler) Trigger(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.PaymentEventTrigger
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	event := pkgviews.PaymentEvent{
		EventID:    uuid.New().String(),
		OrderCode:  req.OrderCode,
		Status:     pkg.OrderStatusSuccess,
		OccurredAt: time.Now(),
	}
	reached := h.relay.Publish(event)
	h.logger.Info("manual payment event published",
		zap.String(pkg.TraceId, trace),
		zap.String(pkg.OrderCode, req.OrderCode),
		zap.Int("waiters", reached))

	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"orderCode": req.OrderCode,
			"delivered": reached,
		},
	})
}
