package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/models"
	apperrors "github.com/mornivek/stafflane/pkg/errors"
)

// Profile carries the employee attributes the access gates evaluate.
type Profile struct {
	Department string `json:"department"`
	Role       string `json:"role"`
	IsManager  bool   `json:"is_manager"`
}

// Identity is the resolved caller context every access decision takes as
// input: the account, its global role, the active organization and the
// employee profile within it.
type Identity struct {
	UserID         string  `json:"user_id"`
	GlobalRole     string  `json:"global_role"`
	OrganizationID string  `json:"organization_id"`
	Profile        Profile `json:"profile"`
}

// IsGlobalAdmin reports whether the caller holds the platform-wide admin role.
func (id *Identity) IsGlobalAdmin() bool {
	return id != nil && id.GlobalRole == models.GlobalRoleAdmin
}

// IsAdmin reports whether the caller has admin rights in the active
// organization, either globally or through the org-level admin role.
func (id *Identity) IsAdmin() bool {
	if id == nil {
		return false
	}
	return id.GlobalRole == models.GlobalRoleAdmin || id.Profile.Role == models.OrgRoleAdmin
}

type identityContextKey struct{}

// WithIdentity stores a resolved identity in the context. The identity
// middleware populates it once per request; nothing outlives the request.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}

// Resolver loads identities from the data store. It performs read-only
// lookups and holds no per-request state.
type Resolver struct {
	db *gorm.DB
}

// NewResolver constructs an identity resolver backed by the provided database.
func NewResolver(db *gorm.DB) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("identity resolver: db is required")
	}
	return &Resolver{db: db}, nil
}

// Resolve produces the identity for the given authenticated user id. It
// fails with Unauthenticated when the account is unknown or disabled,
// NoActiveOrganization when the account has no active organization, and
// NoEmployeeProfile when no profile exists in that organization.
func (r *Resolver) Resolve(ctx context.Context, userID string) (*Identity, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, dependencyFailure("load user", err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}

	if user.OrganizationID == nil || strings.TrimSpace(*user.OrganizationID) == "" {
		return nil, apperrors.ErrNoActiveOrganization
	}
	orgID := *user.OrganizationID

	var profile models.EmployeeProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", user.ID, orgID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoEmployeeProfile
		}
		return nil, dependencyFailure("load employee profile", err)
	}

	if !profile.IsActive {
		return nil, apperrors.ErrNoEmployeeProfile
	}

	return &Identity{
		UserID:         user.ID,
		GlobalRole:     user.Role,
		OrganizationID: orgID,
		Profile: Profile{
			Department: profile.Department,
			Role:       profile.Role,
			IsManager:  profile.IsManager,
		},
	}, nil
}

// dependencyFailure wraps a data-store error so callers can distinguish
// infrastructure faults from access denials.
func dependencyFailure(op string, err error) error {
	return apperrors.ErrDependencyFailure.WithInternal(fmt.Errorf("%s: %w", op, err))
}
