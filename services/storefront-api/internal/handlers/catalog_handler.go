package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/services/storefront-api/internal/services"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	logger  *zap.Logger
	service services.CatalogService
}

func NewCatalogHandler(logger *zap.Logger, svc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{logger: logger, service: svc}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/categories", h.ListCategories)
	r.GET("/banners", h.ListBanners)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var categoryID uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		var err error
		if categoryID, err = uuid.Parse(raw); err != nil {
			c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
				Code:    pkg.ErrInvalidInputCode.Code,
				Message: "invalid categoryId",
			})
			return
		}
	}
	limit, offset := pagination(c)

	products, err := h.service.ListProducts(c.Request.Context(), trace, categoryID, limit, offset)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"products": products,
		},
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
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

	product, err := h.service.GetProduct(c.Request.Context(), trace, productID)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"product": product,
		},
	})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	categories, err := h.service.ListCategories(c.Request.Context(), trace)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"categories": categories,
		},
	})
}

func (h *CatalogHandler) ListBanners(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	banners, err := h.service.ListBanners(c.Request.Context(), trace)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"banners": banners,
		},
	})
}
