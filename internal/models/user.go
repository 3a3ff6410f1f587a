package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Global roles assignable to user accounts. Admins bypass every
// organization-level access check.
const (
	GlobalRoleAdmin = "admin"
	GlobalRoleUser  = "user"
)

// User describes platform accounts. A user may hold employee profiles in
// several organizations; OrganizationID points at the active one.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Role     string `gorm:"type:varchar(16);not null;default:user" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	OrganizationID *string       `gorm:"type:uuid" json:"organization_id"`
	Organization   *Organization `json:"organization,omitempty"`

	Profiles []EmployeeProfile `gorm:"foreignKey:UserID" json:"profiles,omitempty"`
	Sessions []Session         `gorm:"foreignKey:UserID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`

	FailedAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil    *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the account carries the global admin role.
func (u *User) IsAdmin() bool {
	return u.Role == GlobalRoleAdmin
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
