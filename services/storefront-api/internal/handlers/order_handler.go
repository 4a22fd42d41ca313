package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"go.uber.org/zap"
)

type OrderHandler struct {
	logger  *zap.Logger
	service services.OrderService
}

func NewOrderHandler(logger *zap.Logger, svc services.OrderService) *OrderHandler {
	return &OrderHandler{logger: logger, service: svc}
}

// RegisterRoutes registers order routes on the provided Gin group.
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.GET("/orders/code/:code", h.GetOrderByCode)
	r.GET("/orders", h.ListOrders)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"order": order,
		},
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid order id",
		})
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), trace, orderID)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"order": order,
		},
	})
}

func (h *OrderHandler) GetOrderByCode(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrderByCode(c.Request.Context(), trace, c.Param("code"))
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"order": order,
		},
	})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Query("customerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "customerId query param is required",
		})
		return
	}
	limit, offset := pagination(c)

	orders, err := h.service.ListOrders(c.Request.Context(), trace, userID, limit, offset)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"orders": orders,
		},
	})
}

// pagination reads limit/offset query params with storefront defaults.
func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
