// Package api exposes the check pipeline over HTTP.
package api

import (
	"context"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/ppiankov/vouch/internal/model"
	"go.uber.org/zap"
)

// Checker runs one listing check
type Checker interface {
	Check(ctx context.Context, rawURL string) (*model.CheckResult, error)
}

// NewRouter constructs a Gin engine with registered routes. Access and
// panic logs go to the zap logger.
func NewRouter(checker Checker, cfg model.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	RegisterHealthRoutes(r)
	RegisterCheckRoutes(r, checker, cfg.RequestTimeout, logger)
	return r
}
