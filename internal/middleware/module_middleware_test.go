package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/models"
)

func serveModule(t *testing.T, identity *access.Identity, module access.Module) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/gated", func(c *gin.Context) {
		if identity != nil {
			c.Set(CtxIdentityKey, identity)
		}
	}, RequireModule(module), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireModule(t *testing.T) {
	hrMember := &access.Identity{
		UserID:     "u1",
		GlobalRole: models.GlobalRoleUser,
		Profile:    access.Profile{Department: models.DepartmentHR, Role: models.OrgRoleMember},
	}

	require.Equal(t, http.StatusOK, serveModule(t, hrMember, access.ModuleHR).Code)
	require.Equal(t, http.StatusForbidden, serveModule(t, hrMember, access.ModuleFleet).Code)
	require.Equal(t, http.StatusUnauthorized, serveModule(t, nil, access.ModuleHR).Code)

	// A route wired to an unknown module is a server fault, not a denial.
	require.Equal(t, http.StatusInternalServerError, serveModule(t, hrMember, access.Module("bogus")).Code)
}
