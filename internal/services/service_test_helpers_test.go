package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/database/testutil"
	"github.com/mornivek/stafflane/internal/models"
)

type testEnv struct {
	db       *gorm.DB
	org      *models.Organization
	audit    *AuditService
	resolver *access.ProjectResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	org := &models.Organization{Name: "Acme Industries"}
	require.NoError(t, db.Create(org).Error)

	audit, err := NewAuditService(db)
	require.NoError(t, err)

	resolver, err := access.NewProjectResolver(db)
	require.NoError(t, err)

	return &testEnv{db: db, org: org, audit: audit, resolver: resolver}
}

type identityOptions struct {
	globalRole string
	department string
	orgRole    string
	isManager  bool
}

func (e *testEnv) identity(t *testing.T, opts identityOptions) (*models.User, *access.Identity) {
	t.Helper()

	if opts.globalRole == "" {
		opts.globalRole = models.GlobalRoleUser
	}
	if opts.department == "" {
		opts.department = models.DepartmentOperations
	}
	if opts.orgRole == "" {
		opts.orgRole = models.OrgRoleMember
	}

	suffix := uuid.NewString()[:8]
	user := &models.User{
		Username:       "user-" + suffix,
		Email:          "user-" + suffix + "@example.com",
		Password:       "hashed",
		Role:           opts.globalRole,
		IsActive:       true,
		OrganizationID: &e.org.ID,
	}
	require.NoError(t, e.db.Create(user).Error)

	profile := &models.EmployeeProfile{
		UserID:         user.ID,
		OrganizationID: e.org.ID,
		Department:     opts.department,
		Role:           opts.orgRole,
		IsManager:      opts.isManager,
		IsActive:       true,
	}
	require.NoError(t, e.db.Create(profile).Error)

	return user, &access.Identity{
		UserID:         user.ID,
		GlobalRole:     user.Role,
		OrganizationID: e.org.ID,
		Profile: access.Profile{
			Department: profile.Department,
			Role:       profile.Role,
			IsManager:  profile.IsManager,
		},
	}
}

func (e *testEnv) auditCount(t *testing.T, action string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, e.db.Model(&models.AuditLog{}).
		Where("action = ?", action).
		Count(&count).Error)
	return count
}
