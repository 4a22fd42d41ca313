package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{logger: logger}
}

func (b *BaseHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", b.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (b *BaseHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// traceID pulls the request trace id set by the TraceID middleware; handlers
// bail with a 500 if the middleware did not run.
func traceID(c *gin.Context) (string, bool) {
	id, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{
			Code:    pkg.ErrServerCode.Code,
			Message: pkg.ErrServerCode.Message,
		})
		return "", false
	}
	return id, true
}

// respondError writes the standardized error envelope for err.
func respondError(c *gin.Context, logger *zap.Logger, traceID string, err error) {
	resp := pkg.ToErrorResponse(logger, traceID, err)
	c.JSON(resp.Status, resp)
}
