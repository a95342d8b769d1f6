package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/vouch/internal/model"
	"github.com/ppiankov/vouch/internal/pipeline"
	"go.uber.org/zap"
)

type checkRequest struct {
	URL any `json:"url"`
}

// RegisterCheckRoutes registers the listing check endpoint.
func RegisterCheckRoutes(r *gin.Engine, checker Checker, timeout time.Duration, logger *zap.Logger) {
	h := &checkHandler{checker: checker, timeout: timeout, logger: logger}
	r.POST("/api/check", h.handleCheck)
}

type checkHandler struct {
	checker Checker
	timeout time.Duration
	logger  *zap.Logger
}

// handleCheck accepts {"url": string} and returns the check result or
// {"error": message} with the status code for the failure kind.
func (h *checkHandler) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, pipeline.KindInvalidInput)
		return
	}

	rawURL, ok := req.URL.(string)
	if !ok || strings.TrimSpace(rawURL) == "" {
		h.fail(c, pipeline.KindInvalidInput)
		return
	}

	// The check runs to completion even if the caller disconnects;
	// only the configured request timeout bounds it.
	ctx := context.WithoutCancel(c.Request.Context())
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.checker.Check(ctx, rawURL)
	if err != nil {
		h.fail(c, pipeline.KindOf(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *checkHandler) fail(c *gin.Context, kind pipeline.Kind) {
	h.logger.Debug("check rejected", zap.Stringer("kind", kind), zap.Int("status", kind.StatusCode()))
	c.JSON(kind.StatusCode(), model.ErrorResponse{Error: kind.Message()})
}
