package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/models"
	"github.com/mornivek/stafflane/pkg/crypto"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
	"github.com/mornivek/stafflane/pkg/metrics"
)

// CreateUserInput carries the fields accepted when registering an account.
type CreateUserInput struct {
	Username       string  `json:"username" validate:"required,min=3,max=64"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	FirstName      string  `json:"first_name" validate:"max=255"`
	LastName       string  `json:"last_name" validate:"max=255"`
	Role           string  `json:"role" validate:"omitempty,oneof=admin user"`
	OrganizationID *string `json:"organization_id"`
}

// AuthenticateInput carries login credentials and client context.
type AuthenticateInput struct {
	Identifier string
	Password   string
	IPAddress  string
}

// UserServiceConfig tunes lockout behaviour.
type UserServiceConfig struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
	Clock            func() time.Time
}

// UserService manages platform accounts and credential verification.
type UserService struct {
	db        *gorm.DB
	audit     *AuditService
	threshold int
	duration  time.Duration
	now       func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, audit *AuditService, cfg UserServiceConfig) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}

	threshold := cfg.LockoutThreshold
	if threshold <= 0 {
		threshold = 5
	}
	duration := cfg.LockoutDuration
	if duration <= 0 {
		duration = 15 * time.Minute
	}
	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &UserService{
		db:        db,
		audit:     audit,
		threshold: threshold,
		duration:  duration,
		now:       clock,
	}, nil
}

// Create registers a new account with a hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := trimmed(input.Username)
	email := strings.ToLower(trimmed(input.Email))
	if username == "" {
		return nil, apperrors.NewBadRequest("username is required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if trimmed(input.Password) == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	role := trimmed(input.Role)
	if role == "" {
		role = models.GlobalRoleUser
	}
	if role != models.GlobalRoleAdmin && role != models.GlobalRoleUser {
		return nil, apperrors.NewBadRequest("role must be admin or user")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       hashed,
		FirstName:      trimmed(input.FirstName),
		LastName:       trimmed(input.LastName),
		Role:           role,
		IsActive:       true,
		OrganizationID: normalisePtr(input.OrganizationID),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("username or email already exists")
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Log(ctx, AuditEntry{
			UserID:   strPtr(user.ID),
			Action:   "user.create",
			Resource: user.ID,
			Result:   "success",
			Metadata: map[string]any{"username": user.Username},
		})
	}

	return user, nil
}

// Authenticate verifies credentials against the stored bcrypt hash, counting
// failed attempts and locking the account past the threshold.
func (s *UserService) Authenticate(ctx context.Context, input AuthenticateInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	identifier := trimmed(input.Identifier)
	if identifier == "" || input.Password == "" {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", identifier, identifier).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: query user: %w", err)
	}

	now := s.now()

	if !user.IsActive {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrUnauthenticated
	}

	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials.WithMessage("Account temporarily locked")
	}

	// Elapsed lockout resets the counters before the attempt is judged.
	if user.LockedUntil != nil {
		user.LockedUntil = nil
		user.FailedAttempts = 0
		if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
			"locked_until":    nil,
			"failed_attempts": 0,
		}).Error; err != nil {
			return nil, fmt.Errorf("user service: reset lock state: %w", err)
		}
	}

	if !crypto.VerifyPassword(user.Password, input.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, s.handleFailedAttempt(ctx, &user, now)
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"failed_attempts": 0,
		"locked_until":    nil,
		"last_login_at":   now,
		"last_login_ip":   trimmed(input.IPAddress),
	}).Error; err != nil {
		return nil, fmt.Errorf("user service: update login state: %w", err)
	}

	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = trimmed(input.IPAddress)

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}

func (s *UserService) handleFailedAttempt(ctx context.Context, user *models.User, now time.Time) error {
	user.FailedAttempts++

	updates := map[string]any{"failed_attempts": user.FailedAttempts}
	if user.FailedAttempts >= s.threshold {
		lockUntil := now.Add(s.duration)
		user.LockedUntil = &lockUntil
		updates["locked_until"] = lockUntil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("user service: update failed attempts: %w", err)
	}

	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return apperrors.ErrInvalidCredentials.WithMessage("Account temporarily locked")
	}
	return apperrors.ErrInvalidCredentials
}

// GetByID loads an account by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", trimmed(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}
