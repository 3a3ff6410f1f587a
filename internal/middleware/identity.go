package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/pkg/response"
)

// CtxIdentityKey holds the resolved employee identity for the request.
const CtxIdentityKey = "identity"

// Identity resolves the caller's employee context once per request and
// stores it both in gin's keys and in the request context, so services can
// read it without another lookup. Runs after Auth.
func Identity(resolver *access.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(CtxUserIDKey)

		identity, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxIdentityKey, identity)
		c.Request = c.Request.WithContext(access.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// IdentityFrom returns the identity stored by the Identity middleware.
func IdentityFrom(c *gin.Context) (*access.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*access.Identity)
	return identity, ok && identity != nil
}
