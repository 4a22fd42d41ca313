package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
	"github.com/marketbay/shopfront/services/storefront-api/internal/views"
	"go.uber.org/zap"
)

type FeedbackHandler struct {
	logger  *zap.Logger
	service services.FeedbackService
}

func NewFeedbackHandler(logger *zap.Logger, svc services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{logger: logger, service: svc}
}

func (h *FeedbackHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/feedback", h.AddFeedback)
	r.GET("/products/:id/feedback", h.ListByProduct)
}

func (h *FeedbackHandler) AddFeedback(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	feedback, err := h.service.AddFeedback(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"feedback": feedback,
		},
	})
}

func (h *FeedbackHandler) ListByProduct(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid product id",
		})
		return
	}

	limit, offset := pagination(c)
	items, err := h.service.ListByProduct(c.Request.Context(), trace, productID, limit, offset)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"feedback": items,
		},
	})
}
