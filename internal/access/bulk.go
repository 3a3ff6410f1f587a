package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

// GetProjectsPermissions resolves permissions for many projects in a single
// data-store round trip. The result only contains entries for projects the
// caller can access; inaccessible or unknown ids are simply absent.
//
// The outcome is required to match GetProjectPermission applied per id; the
// batch path exists purely to avoid N+1 queries on list views.
func (r *ProjectResolver) GetProjectsPermissions(ctx context.Context, identity *Identity, projectIDs []string) (map[string]Permission, error) {
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	ids := uniqueIDs(projectIDs)
	out := make(map[string]Permission, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// Admins resolve to manage for every id without touching the store,
	// mirroring the single-project short-circuit.
	if identity.IsAdmin() {
		for _, id := range ids {
			out[id] = PermissionManage
		}
		return out, nil
	}

	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", identity.OrganizationID, ids).
		Preload("Accesses", "user_id = ? AND organization_id = ?", identity.UserID, identity.OrganizationID).
		Find(&projects).Error
	if err != nil {
		return nil, dependencyFailure("batch load projects", err)
	}

	for i := range projects {
		perm, err := resolvePreloaded(identity, &projects[i])
		if err != nil {
			return nil, err
		}
		if perm != PermissionNone {
			out[projects[i].ID] = perm
		}
	}

	return out, nil
}

// resolvePreloaded applies the creator/supervisor/grant precedence to a
// project whose access rows for the caller were already fetched.
func resolvePreloaded(identity *Identity, project *models.Project) (Permission, error) {
	if project.CreatedByID == identity.UserID {
		return PermissionManage, nil
	}
	if project.SupervisorID != nil && *project.SupervisorID == identity.UserID {
		return PermissionManage, nil
	}

	switch len(project.Accesses) {
	case 0:
		return PermissionNone, nil
	case 1:
		return permissionFromAccessLevel(project.Accesses[0].AccessLevel)
	default:
		// The unique (project, user) constraint makes this unreachable;
		// seeing it means the store is corrupt, not that a tie-break rule
		// should apply.
		return PermissionNone, fmt.Errorf(
			"access: project %s has %d access rows for user %s", project.ID, len(project.Accesses), identity.UserID)
	}
}

func uniqueIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
