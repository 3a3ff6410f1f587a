package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/database/testutil"
	"github.com/mornivek/stafflane/internal/models"
)

type fixture struct {
	db  *gorm.DB
	org *models.Organization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	org := &models.Organization{Name: "Acme Industries"}
	require.NoError(t, db.Create(org).Error)

	return &fixture{db: db, org: org}
}

type memberOptions struct {
	globalRole string
	department string
	orgRole    string
	isManager  bool
}

func (f *fixture) member(t *testing.T, opts memberOptions) (*models.User, *Identity) {
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
		OrganizationID: &f.org.ID,
	}
	require.NoError(t, f.db.Create(user).Error)

	profile := &models.EmployeeProfile{
		UserID:         user.ID,
		OrganizationID: f.org.ID,
		Department:     opts.department,
		Role:           opts.orgRole,
		IsManager:      opts.isManager,
		IsActive:       true,
	}
	require.NoError(t, f.db.Create(profile).Error)

	return user, &Identity{
		UserID:         user.ID,
		GlobalRole:     user.Role,
		OrganizationID: f.org.ID,
		Profile: Profile{
			Department: profile.Department,
			Role:       profile.Role,
			IsManager:  profile.IsManager,
		},
	}
}

func (f *fixture) project(t *testing.T, createdBy string, supervisorID *string) *models.Project {
	t.Helper()

	project := &models.Project{
		OrganizationID: f.org.ID,
		Name:           "Project " + uuid.NewString()[:8],
		Status:         models.ProjectStatusActive,
		CreatedByID:    createdBy,
		SupervisorID:   supervisorID,
	}
	require.NoError(t, f.db.Create(project).Error)
	return project
}

func (f *fixture) grant(t *testing.T, projectID, userID, level string) *models.ProjectAccess {
	t.Helper()

	grant := &models.ProjectAccess{
		ProjectID:      projectID,
		UserID:         userID,
		OrganizationID: f.org.ID,
		AccessLevel:    level,
	}
	require.NoError(t, f.db.Create(grant).Error)
	return grant
}

func (f *fixture) resolver(t *testing.T) *ProjectResolver {
	t.Helper()

	resolver, err := NewProjectResolver(f.db)
	require.NoError(t, err)
	return resolver
}
