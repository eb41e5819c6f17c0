package middleware

import (
	"context"
	"net/http"

	domainerrors "fxvault.backend/internal/domain/errors"
	"fxvault.backend/internal/interfaces/http/response"
	"fxvault.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaintenanceChecker reports whether the platform is in maintenance mode.
type MaintenanceChecker interface {
	InMaintenance(ctx context.Context) (bool, error)
}

// MaintenanceMiddleware rejects user writes with 503 while maintenance mode is on.
// Reads and admin requests always pass. Must run after AuthMiddleware.
func MaintenanceMiddleware(checker MaintenanceChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if IsAdmin(c) {
			c.Next()
			return
		}

		on, err := checker.InMaintenance(c.Request.Context())
		if err != nil {
			logger.Warn(c.Request.Context(), "Maintenance flag unavailable", zap.Error(err))
			c.Next()
			return
		}
		if on {
			response.Abort(c, domainerrors.ErrMaintenance)
			return
		}
		c.Next()
	}
}
