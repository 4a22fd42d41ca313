package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/services/admin-api/internal/services"
	"go.uber.org/zap"
)

type ModerationHandler struct {
	logger  *zap.Logger
	service services.ModerationService
}

func NewModerationHandler(logger *zap.Logger, svc services.ModerationService) *ModerationHandler {
	return &ModerationHandler{logger: logger, service: svc}
}

func (h *ModerationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.GET("/feedback", h.ListFeedback)
	r.DELETE("/feedback/:id", h.DeleteFeedback)
}

func (h *ModerationHandler) ListUsers(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	users, err := h.service.ListUsers(c.Request.Context(), trace, limit, offset)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"users": users,
		},
	})
}

func (h *ModerationHandler) ListFeedback(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	items, err := h.service.ListFeedback(c.Request.Context(), trace, limit, offset)
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

func (h *ModerationHandler) DeleteFeedback(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid feedback id",
		})
		return
	}

	if err := h.service.DeleteFeedback(c.Request.Context(), trace, feedbackID); err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.Status(http.StatusNoContent)
}
