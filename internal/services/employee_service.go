package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/access"
	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

// UpsertEmployeeInput carries the fields for creating or updating a profile.
type UpsertEmployeeInput struct {
	UserID     string     `json:"user_id" validate:"required"`
	Department string     `json:"department" validate:"required"`
	Role       string     `json:"role" validate:"omitempty,oneof=admin member"`
	IsManager  bool       `json:"is_manager"`
	JobTitle   string     `json:"job_title" validate:"max=255"`
	HiredAt    *time.Time `json:"hired_at"`
}

// EmployeeService manages employee profiles. HTTP routes sit behind the hr
// module gate; the service re-checks it so direct callers get the same
// answer.
type EmployeeService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(db *gorm.DB, audit *AuditService) (*EmployeeService, error) {
	if db == nil {
		return nil, errors.New("employee service: db is required")
	}
	return &EmployeeService{db: db, audit: audit}, nil
}

// List returns the organization's employee profiles.
func (s *EmployeeService) List(ctx context.Context, identity *access.Identity) ([]models.EmployeeProfile, error) {
	ctx = ensureContext(ctx)

	if err := s.requireHR(identity); err != nil {
		return nil, err
	}

	var profiles []models.EmployeeProfile
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", identity.OrganizationID).
		Preload("User").
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("employee service: list profiles: %w", err)
	}
	return profiles, nil
}

// Upsert creates an employee profile, or updates the existing one for the
// (user, organization) pair.
func (s *EmployeeService) Upsert(ctx context.Context, identity *access.Identity, input UpsertEmployeeInput) (*models.EmployeeProfile, error) {
	ctx = ensureContext(ctx)

	if err := s.requireHR(identity); err != nil {
		return nil, err
	}

	userID := trimmed(input.UserID)
	if userID == "" {
		return nil, apperrors.NewBadRequest("user id is required")
	}
	if !knownDepartment(input.Department) {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown department %q", input.Department))
	}
	role := trimmed(input.Role)
	if role == "" {
		role = models.OrgRoleMember
	}
	if role != models.OrgRoleAdmin && role != models.OrgRoleMember {
		return nil, apperrors.NewBadRequest("role must be admin or member")
	}

	var profile models.EmployeeProfile
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, identity.OrganizationID).
		First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.EmployeeProfile{
			UserID:         userID,
			OrganizationID: identity.OrganizationID,
			Department:     input.Department,
			Role:           role,
			IsManager:      input.IsManager,
			JobTitle:       trimmed(input.JobTitle),
			HiredAt:        input.HiredAt,
			IsActive:       true,
		}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, apperrors.NewBadRequest("profile already exists")
			}
			return nil, fmt.Errorf("employee service: create profile: %w", err)
		}
		s.auditAction(ctx, identity, "employee.create", profile.ID, userID)
	case err != nil:
		return nil, fmt.Errorf("employee service: find profile: %w", err)
	default:
		updates := map[string]any{
			"department": input.Department,
			"role":       role,
			"is_manager": input.IsManager,
			"job_title":  trimmed(input.JobTitle),
			"is_active":  true,
		}
		if input.HiredAt != nil {
			updates["hired_at"] = *input.HiredAt
		}
		if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("employee service: update profile: %w", err)
		}
		profile.Department = input.Department
		profile.Role = role
		profile.IsManager = input.IsManager
		profile.JobTitle = trimmed(input.JobTitle)
		profile.IsActive = true
		if input.HiredAt != nil {
			profile.HiredAt = input.HiredAt
		}
		s.auditAction(ctx, identity, "employee.update", profile.ID, userID)
	}

	return &profile, nil
}

// Deactivate marks a profile inactive without deleting its history.
func (s *EmployeeService) Deactivate(ctx context.Context, identity *access.Identity, profileID string) error {
	ctx = ensureContext(ctx)

	if err := s.requireHR(identity); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.EmployeeProfile{}).
		Where("id = ? AND organization_id = ?", profileID, identity.OrganizationID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("employee service: deactivate profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	s.auditAction(ctx, identity, "employee.deactivate", profileID, "")
	return nil
}

func (s *EmployeeService) requireHR(identity *access.Identity) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	allowed, err := access.CanAccessModule(identity, access.ModuleHR)
	if err != nil {
		return apperrors.ErrInternalServer.WithInternal(err)
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *EmployeeService) auditAction(ctx context.Context, identity *access.Identity, action, resource, subjectID string) {
	if s.audit == nil {
		return
	}
	var meta map[string]any
	if subjectID != "" {
		meta = map[string]any{"subject_user_id": subjectID}
	}
	_ = s.audit.Log(ctx, AuditEntry{
		UserID:         strPtr(identity.UserID),
		OrganizationID: strPtr(identity.OrganizationID),
		Action:         action,
		Resource:       resource,
		Result:         "success",
		Metadata:       meta,
	})
}

func knownDepartment(value string) bool {
	for _, dept := range models.Departments() {
		if dept == value {
			return true
		}
	}
	return false
}
