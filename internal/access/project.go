package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
	"github.com/mornivek/stafflane/pkg/metrics"
)

// ProjectResolver computes a caller's effective permission on projects.
// It is stateless apart from the database handle: every call re-evaluates
// against current data-store state.
type ProjectResolver struct {
	db *gorm.DB
}

// NewProjectResolver constructs a resolver backed by the provided database.
func NewProjectResolver(db *gorm.DB) (*ProjectResolver, error) {
	if db == nil {
		return nil, errors.New("project resolver: db is required")
	}
	return &ProjectResolver{db: db}, nil
}

// GetProjectPermission resolves the identity's permission on the project.
// Precedence, highest first:
//  1. global admin or org-level admin role: manage, without loading the project
//  2. missing project (scoped to the caller's organization): none
//  3. creator or supervisor: manage, regardless of any grant row
//  4. explicit grant: write maps to edit, read maps to view
//  5. otherwise: none
//
// PermissionNone is an expected result, never an error.
func (r *ProjectResolver) GetProjectPermission(ctx context.Context, identity *Identity, projectID string) (Permission, error) {
	perm, err := r.resolve(ctx, identity, projectID)
	switch {
	case err != nil:
		metrics.ProjectPermissionChecks.WithLabelValues("error").Inc()
	default:
		metrics.ProjectPermissionChecks.WithLabelValues(perm.String()).Inc()
	}
	return perm, err
}

func (r *ProjectResolver) resolve(ctx context.Context, identity *Identity, projectID string) (Permission, error) {
	if identity == nil {
		return PermissionNone, apperrors.ErrUnauthenticated
	}

	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return PermissionNone, nil
	}

	if identity.IsAdmin() {
		return PermissionManage, nil
	}

	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", projectID, identity.OrganizationID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PermissionNone, nil
		}
		return PermissionNone, dependencyFailure("load project", err)
	}

	return r.resolveLoaded(ctx, identity, &project)
}

func (r *ProjectResolver) resolveLoaded(ctx context.Context, identity *Identity, project *models.Project) (Permission, error) {
	if project.CreatedByID == identity.UserID {
		return PermissionManage, nil
	}
	if project.SupervisorID != nil && *project.SupervisorID == identity.UserID {
		return PermissionManage, nil
	}

	var grant models.ProjectAccess
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND organization_id = ?",
			project.ID, identity.UserID, identity.OrganizationID).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PermissionNone, nil
		}
		return PermissionNone, dependencyFailure("load project access", err)
	}

	return permissionFromAccessLevel(grant.AccessLevel)
}

// RequireProjectPermission fails with AccessDenied unless the resolved
// permission meets the required level. The denial message names the
// required and actual levels.
func (r *ProjectResolver) RequireProjectPermission(ctx context.Context, identity *Identity, projectID string, required Permission) error {
	if required == PermissionNone {
		return fmt.Errorf("project resolver: required level must be at least view")
	}

	actual, err := r.GetProjectPermission(ctx, identity, projectID)
	if err != nil {
		return err
	}

	if !actual.Allows(required) {
		return apperrors.ErrAccessDenied.WithMessage(
			fmt.Sprintf("Project requires %s access, caller has %s", required, actual))
	}
	return nil
}

// CanViewProject reports whether the identity may see the project. Denials
// become false; data-store failures still propagate.
func (r *ProjectResolver) CanViewProject(ctx context.Context, identity *Identity, projectID string) (bool, error) {
	return r.allows(ctx, identity, projectID, PermissionView)
}

// CanEditProjectContent reports whether the identity may modify the
// project's contents.
func (r *ProjectResolver) CanEditProjectContent(ctx context.Context, identity *Identity, projectID string) (bool, error) {
	return r.allows(ctx, identity, projectID, PermissionEdit)
}

// HasManageAccess reports whether the identity fully controls the project.
func (r *ProjectResolver) HasManageAccess(ctx context.Context, identity *Identity, projectID string) (bool, error) {
	return r.allows(ctx, identity, projectID, PermissionManage)
}

// allows converts expected denials into false so conditional code paths
// fail closed instead of crashing. DependencyFailure is not swallowed.
func (r *ProjectResolver) allows(ctx context.Context, identity *Identity, projectID string, required Permission) (bool, error) {
	err := r.RequireProjectPermission(ctx, identity, projectID, required)
	switch {
	case err == nil:
		return true, nil
	case isDenial(err):
		return false, nil
	default:
		return false, err
	}
}

// isDenial matches the error kinds that mean "not allowed" rather than
// "something broke".
func isDenial(err error) bool {
	return errors.Is(err, apperrors.ErrAccessDenied) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, apperrors.ErrUnauthenticated)
}
