package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/services/admin-api/internal/services"
	"github.com/marketbay/shopfront/services/admin-api/internal/views"
	"go.uber.org/zap"
)

type OrderAdminHandler struct {
	logger  *zap.Logger
	service services.OrderAdminService
}

func NewOrderAdminHandler(logger *zap.Logger, svc services.OrderAdminService) *OrderAdminHandler {
	return &OrderAdminHandler{logger: logger, service: svc}
}

func (h *OrderAdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.PUT("/orders/:id/status", h.UpdateStatus)
}

func (h *OrderAdminHandler) ListOrders(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	orders, err := h.service.ListOrders(c.Request.Context(), trace, c.Query("status"), limit, offset)
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

func (h *OrderAdminHandler) GetOrder(c *gin.Context) {
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

func (h *OrderAdminHandler) UpdateStatus(c *gin.Context) {
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

	var req views.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, err := h.service.OverrideStatus(c.Request.Context(), trace, orderID, req.Status)
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
