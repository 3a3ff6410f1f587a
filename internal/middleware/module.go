package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mornivek/stafflane/internal/access"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
	"github.com/mornivek/stafflane/pkg/logger"
	"github.com/mornivek/stafflane/pkg/metrics"
	"github.com/mornivek/stafflane/pkg/response"
)

// RequireModule gates a route group behind the module access table. An
// unknown module is a server fault, not a denial: the route is miswired.
// Runs after Identity.
func RequireModule(module access.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			metrics.ModuleGateDecisions.WithLabelValues(string(module), "deny").Inc()
			response.Error(c, apperrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		allowed, err := access.CanAccessModule(identity, module)
		if err != nil {
			metrics.ModuleGateDecisions.WithLabelValues(string(module), "error").Inc()
			logger.WithModule("access").Error("module gate misconfigured",
				zap.String("module", string(module)),
				zap.Error(err),
			)
			response.Error(c, apperrors.ErrInternalServer)
			c.Abort()
			return
		}
		if !allowed {
			metrics.ModuleGateDecisions.WithLabelValues(string(module), "deny").Inc()
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		metrics.ModuleGateDecisions.WithLabelValues(string(module), "allow").Inc()
		c.Next()
	}
}
