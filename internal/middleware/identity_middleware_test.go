package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/database/testutil"
	"github.com/mornivek/stafflane/internal/models"
)

func seedIdentityFixtures(t *testing.T, db *gorm.DB) (*models.Organization, *models.User) {
	t.Helper()

	org := &models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(org).Error)

	user := &models.User{
		Username:       "jane",
		Email:          "jane@example.com",
		Password:       "hashed",
		Role:           models.GlobalRoleUser,
		IsActive:       true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.EmployeeProfile{
		UserID:         user.ID,
		OrganizationID: org.ID,
		Department:     models.DepartmentHR,
		Role:           models.OrgRoleMember,
		IsActive:       true,
	}
	require.NoError(t, db.Create(profile).Error)

	return org, user
}

func TestIdentityMiddlewareResolvesOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	org, user := seedIdentityFixtures(t, db)

	resolver, err := access.NewResolver(db)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", func(c *gin.Context) {
		c.Set(CtxUserIDKey, user.ID)
	}, Identity(resolver), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		require.True(t, ok)
		require.Equal(t, org.ID, identity.OrganizationID)

		// Services read the same identity from the request context.
		fromCtx, ok := access.IdentityFromContext(c.Request.Context())
		require.True(t, ok)
		require.Same(t, identity, fromCtx)

		c.JSON(http.StatusOK, identity)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestIdentityMiddlewareErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	_, user := seedIdentityFixtures(t, db)

	resolver, err := access.NewResolver(db)
	require.NoError(t, err)

	serve := func(userID string) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/me", func(c *gin.Context) {
			c.Set(CtxUserIDKey, userID)
		}, Identity(resolver), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)
		return w
	}

	// Unknown account -> 401.
	require.Equal(t, http.StatusUnauthorized, serve("ghost").Code)

	// No active organization -> 403.
	require.NoError(t, db.Model(user).Update("organization_id", nil).Error)
	require.Equal(t, http.StatusForbidden, serve(user.ID).Code)
}
