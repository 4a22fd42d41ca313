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

type AccountHandler struct {
	logger  *zap.Logger
	service services.AccountService
}

func NewAccountHandler(logger *zap.Logger, svc services.AccountService) *AccountHandler {
	return &AccountHandler{logger: logger, service: svc}
}

func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/users", h.Register)
	r.GET("/users/:id", h.GetUser)
	r.POST("/users/:id/addresses", h.AddAddress)
	r.GET("/users/:id/addresses", h.ListAddresses)
}

func (h *AccountHandler) Register(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.service.Register(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"user": user,
		},
	})
}

func (h *AccountHandler) GetUser(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid user id",
		})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), trace, userID)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"user": user,
		},
	})
}

func (h *AccountHandler) AddAddress(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid user id",
		})
		return
	}

	var req views.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	address, err := h.service.AddAddress(c.Request.Context(), trace, userID, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"address": address,
		},
	})
}

func (h *AccountHandler) ListAddresses(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid user id",
		})
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), trace, userID)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"addresses": addresses,
		},
	})
}
