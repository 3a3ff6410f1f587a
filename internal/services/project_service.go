package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

// CreateProjectInput carries the fields accepted when creating a project.
type CreateProjectInput struct {
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Description  string  `json:"description" validate:"max=2000"`
	SupervisorID *string `json:"supervisor_id"`
}

// UpdateProjectInput carries optional fields for a project update. Nil
// pointers leave the stored value untouched.
type UpdateProjectInput struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	Status       *string `json:"status" validate:"omitempty,oneof=active on_hold archived"`
	SupervisorID *string `json:"supervisor_id"`
}

// ProjectWithPermission pairs a project with the caller's effective permission.
type ProjectWithPermission struct {
	models.Project
	Permission string `json:"permission"`
}

// ProjectService implements project CRUD guarded by the permission resolver.
type ProjectService struct {
	db       *gorm.DB
	resolver *access.ProjectResolver
	audit    *AuditService
}

// NewProjectService constructs a ProjectService.
func NewProjectService(db *gorm.DB, resolver *access.ProjectResolver, audit *AuditService) (*ProjectService, error) {
	if db == nil {
		return nil, errors.New("project service: db is required")
	}
	if resolver == nil {
		return nil, errors.New("project service: resolver is required")
	}
	return &ProjectService{db: db, resolver: resolver, audit: audit}, nil
}

// Create stores a new project owned by the caller.
func (s *ProjectService) Create(ctx context.Context, identity *access.Identity, input CreateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if trimmed(input.Name) == "" {
		return nil, apperrors.NewBadRequest("project name is required")
	}

	project := &models.Project{
		OrganizationID: identity.OrganizationID,
		Name:           trimmed(input.Name),
		Description:    trimmed(input.Description),
		Status:         models.ProjectStatusActive,
		CreatedByID:    identity.UserID,
		SupervisorID:   normalisePtr(input.SupervisorID),
	}

	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("project service: create project: %w", err)
	}

	s.auditAction(ctx, identity, "project.create", project.ID, "success")
	return project, nil
}

// Get loads a project the caller may at least view.
func (s *ProjectService) Get(ctx context.Context, identity *access.Identity, projectID string) (*models.Project, error) {
	ctx = ensureContext(ctx)

	if err := s.resolver.RequireProjectPermission(ctx, identity, projectID, access.PermissionView); err != nil {
		return nil, err
	}

	project, err := s.load(ctx, identity, projectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the organization's projects visible to the caller, each
// annotated with the caller's permission. The bulk resolver keeps this to a
// single permission query regardless of result size.
func (s *ProjectService) List(ctx context.Context, identity *access.Identity) ([]ProjectWithPermission, error) {
	ctx = ensureContext(ctx)
	if identity == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	var projects []models.Project
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", identity.OrganizationID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("project service: list projects: %w", err)
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	perms, err := s.resolver.GetProjectsPermissions(ctx, identity, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectWithPermission, 0, len(projects))
	for _, p := range projects {
		perm, ok := perms[p.ID]
		if !ok {
			continue
		}
		out = append(out, ProjectWithPermission{Project: p, Permission: perm.String()})
	}
	return out, nil
}

// Update applies changes to a project the caller may edit.
func (s *ProjectService) Update(ctx context.Context, identity *access.Identity, projectID string, input UpdateProjectInput) (*models.Project, error) {
	ctx = ensureContext(ctx)

	if err := s.resolver.RequireProjectPermission(ctx, identity, projectID, access.PermissionEdit); err != nil {
		return nil, err
	}

	project, err := s.load(ctx, identity, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if trimmed(*input.Name) == "" {
			return nil, apperrors.NewBadRequest("project name cannot be empty")
		}
		updates["name"] = trimmed(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = trimmed(*input.Description)
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.SupervisorID != nil {
		updates["supervisor_id"] = normalisePtr(input.SupervisorID)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("project service: update project: %w", err)
		}
	}

	s.auditAction(ctx, identity, "project.update", project.ID, "success")
	return project, nil
}

// Delete removes a project. Requires manage.
func (s *ProjectService) Delete(ctx context.Context, identity *access.Identity, projectID string) error {
	ctx = ensureContext(ctx)

	if err := s.resolver.RequireProjectPermission(ctx, identity, projectID, access.PermissionManage); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", projectID, identity.OrganizationID).
		Delete(&models.Project{})
	if result.Error != nil {
		return fmt.Errorf("project service: delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	s.auditAction(ctx, identity, "project.delete", projectID, "success")
	return nil
}

func (s *ProjectService) load(ctx context.Context, identity *access.Identity, projectID string) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", projectID, identity.OrganizationID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project service: load project: %w", err)
	}
	return &project, nil
}

func (s *ProjectService) auditAction(ctx context.Context, identity *access.Identity, action, resource, result string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Log(ctx, AuditEntry{
		UserID:         strPtr(identity.UserID),
		OrganizationID: strPtr(identity.OrganizationID),
		Action:         action,
		Resource:       resource,
		Result:         result,
	})
}

func normalisePtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := trimmed(*value)
	if v == "" {
		return nil
	}
	return &v
}
