package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

func TestGetProjectsPermissionsEmptyInput(t *testing.T) {
	// A nil db proves the store is never touched for empty input.
	resolver := &ProjectResolver{}
	identity := &Identity{UserID: "u1", GlobalRole: models.GlobalRoleUser, OrganizationID: "o1"}

	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		out, err := resolver.GetProjectsPermissions(context.Background(), identity, ids)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestGetProjectsPermissionsAdminShortCircuit(t *testing.T) {
	// Admins never hit the store either, so a nil db must work.
	resolver := &ProjectResolver{}
	identity := &Identity{UserID: "u1", GlobalRole: models.GlobalRoleAdmin, OrganizationID: "o1"}

	ids := []string{"p1", "p2", "p2", " p3 "}
	out, err := resolver.GetProjectsPermissions(context.Background(), identity, ids)
	require.NoError(t, err)

	assert.Len(t, out, 3)
	for _, id := range []string{"p1", "p2", "p3"} {
		assert.Equal(t, PermissionManage, out[id])
	}
}

func TestGetProjectsPermissionsNilIdentity(t *testing.T) {
	resolver := &ProjectResolver{}

	_, err := resolver.GetProjectsPermissions(context.Background(), nil, []string{"p1"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestGetProjectsPermissionsMixedFixtures(t *testing.T) {
	f := newFixture(t)
	resolver := f.resolver(t)
	ctx := context.Background()

	creator, identity := f.member(t, memberOptions{})
	other, _ := f.member(t, memberOptions{})

	created := f.project(t, creator.ID, nil)
	supervised := f.project(t, other.ID, &creator.ID)
	written := f.project(t, other.ID, nil)
	f.grant(t, written.ID, creator.ID, models.AccessLevelWrite)
	readable := f.project(t, other.ID, nil)
	f.grant(t, readable.ID, creator.ID, models.AccessLevelRead)
	unrelated := f.project(t, other.ID, nil)
	missing := uuid.NewString()

	ids := []string{created.ID, supervised.ID, written.ID, readable.ID, unrelated.ID, missing}

	out, err := resolver.GetProjectsPermissions(ctx, identity, ids)
	require.NoError(t, err)

	assert.Equal(t, map[string]Permission{
		created.ID:    PermissionManage,
		supervised.ID: PermissionManage,
		written.ID:    PermissionEdit,
		readable.ID:   PermissionView,
	}, out)

	// The batch result must agree with resolving each id on its own.
	for _, id := range ids {
		single, err := resolver.GetProjectPermission(ctx, identity, id)
		require.NoError(t, err)

		batch, ok := out[id]
		if !ok {
			batch = PermissionNone
		}
		assert.Equal(t, single, batch, "batch and single disagree on %s", id)
	}
}

func TestGetProjectsPermissionsDeduplicatesInput(t *testing.T) {
	f := newFixture(t)
	resolver := f.resolver(t)

	owner, _ := f.member(t, memberOptions{})
	project := f.project(t, owner.ID, nil)

	member, identity := f.member(t, memberOptions{})
	f.grant(t, project.ID, member.ID, models.AccessLevelRead)

	out, err := resolver.GetProjectsPermissions(context.Background(), identity,
		[]string{project.ID, project.ID, " " + project.ID + " "})
	require.NoError(t, err)

	assert.Equal(t, map[string]Permission{project.ID: PermissionView}, out)
}

func TestGetProjectsPermissionsOrganizationScoped(t *testing.T) {
	f := newFixture(t)
	resolver := f.resolver(t)

	owner, _ := f.member(t, memberOptions{})
	project := f.project(t, owner.ID, nil)

	otherOrg := &models.Organization{Name: "Globex"}
	require.NoError(t, f.db.Create(otherOrg).Error)

	outsider := &Identity{
		UserID:         owner.ID,
		GlobalRole:     models.GlobalRoleUser,
		OrganizationID: otherOrg.ID,
		Profile:        Profile{Department: models.DepartmentOperations, Role: models.OrgRoleMember},
	}

	out, err := resolver.GetProjectsPermissions(context.Background(), outsider, []string{project.ID})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetProjectsPermissionsIgnoresOrgMismatchedGrant(t *testing.T) {
	f := newFixture(t)
	resolver := f.resolver(t)

	owner, _ := f.member(t, memberOptions{})
	reader, readerIdentity := f.member(t, memberOptions{})
	project := f.project(t, owner.ID, nil)

	otherOrg := &models.Organization{Name: "Globex"}
	require.NoError(t, f.db.Create(otherOrg).Error)

	// A grant row tagged with a foreign organization must count for nothing,
	// in the batch path exactly as in the single path.
	require.NoError(t, f.db.Create(&models.ProjectAccess{
		ProjectID:      project.ID,
		UserID:         reader.ID,
		OrganizationID: otherOrg.ID,
		AccessLevel:    models.AccessLevelWrite,
	}).Error)

	single, err := resolver.GetProjectPermission(context.Background(), readerIdentity, project.ID)
	require.NoError(t, err)
	require.Equal(t, PermissionNone, single)

	batch, err := resolver.GetProjectsPermissions(context.Background(), readerIdentity, []string{project.ID})
	require.NoError(t, err)
	assert.Empty(t, batch)

	perm, ok := batch[project.ID]
	require.False(t, ok)
	require.Equal(t, single, perm)
}
