package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/middleware"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
	"github.com/mornivek/stafflane/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// callerIdentity fetches the identity stored by the identity middleware,
// writing a 401 when it is absent.
func callerIdentity(c *gin.Context) (*access.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthenticated)
		return nil, false
	}
	return identity, true
}
