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

type CatalogAdminHandler struct {
	logger  *zap.Logger
	service services.CatalogAdminService
}

func NewCatalogAdminHandler(logger *zap.Logger, svc services.CatalogAdminService) *CatalogAdminHandler {
	return &CatalogAdminHandler{logger: logger, service: svc}
}

func (h *CatalogAdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/products", h.CreateProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	r.GET("/products", h.ListProducts)

	r.POST("/categories", h.CreateCategory)
	r.GET("/categories", h.ListCategories)
	r.DELETE("/categories/:id", h.DeleteCategory)

	r.POST("/banners", h.CreateBanner)
	r.PUT("/banners/:id", h.UpdateBanner)
	r.DELETE("/banners/:id", h.DeleteBanner)
	r.GET("/banners", h.ListBanners)
}

func (h *CatalogAdminHandler) CreateProduct(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"product": product,
		},
	})
}

func (h *CatalogAdminHandler) UpdateProduct(c *gin.Context) {
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

	var req views.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), trace, productID, req)
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

func (h *CatalogAdminHandler) DeleteProduct(c *gin.Context) {
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

	if err := h.service.DeleteProduct(c.Request.Context(), trace, productID); err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogAdminHandler) ListProducts(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var categoryID uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
				Code:    pkg.ErrInvalidInputCode.Code,
				Message: "invalid category id",
			})
			return
		}
		categoryID = id
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

func (h *CatalogAdminHandler) CreateCategory(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"category": category,
		},
	})
}

func (h *CatalogAdminHandler) ListCategories(c *gin.Context) {
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

func (h *CatalogAdminHandler) DeleteCategory(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid category id",
		})
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), trace, categoryID); err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogAdminHandler) CreateBanner(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	var req views.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	banner, err := h.service.CreateBanner(c.Request.Context(), trace, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusCreated, pkg.APIResponse{
		Data: map[string]interface{}{
			"banner": banner,
		},
	})
}

func (h *CatalogAdminHandler) UpdateBanner(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	bannerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid banner id",
		})
		return
	}

	var req views.UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	banner, err := h.service.UpdateBanner(c.Request.Context(), trace, bannerID, req)
	if err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.JSON(http.StatusOK, pkg.APIResponse{
		Data: map[string]interface{}{
			"banner": banner,
		},
	})
}

func (h *CatalogAdminHandler) DeleteBanner(c *gin.Context) {
	trace, ok := traceID(c)
	if !ok {
		return
	}

	bannerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid banner id",
		})
		return
	}

	if err := h.service.DeleteBanner(c.Request.Context(), trace, bannerID); err != nil {
		respondError(c, h.logger, trace, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogAdminHandler) ListBanners(c *gin.Context) {
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
