package models

import "time"

// Departments an employee profile can belong to. The access gates key off
// these values, so they are stored as plain strings with a fixed vocabulary.
const (
	DepartmentAdmin       = "admin"
	DepartmentFinance     = "finance"
	DepartmentHR          = "hr"
	DepartmentOperations  = "operations"
	DepartmentSales       = "sales"
	DepartmentRecruitment = "recruitment"
)

// Organization-level roles held by an employee profile. OrgRoleAdmin grants
// manage permission on every project in the organization.
const (
	OrgRoleAdmin  = "admin"
	OrgRoleMember = "member"
)

// Departments lists every known department value.
func Departments() []string {
	return []string{
		DepartmentAdmin,
		DepartmentFinance,
		DepartmentHR,
		DepartmentOperations,
		DepartmentSales,
		DepartmentRecruitment,
	}
}

// EmployeeProfile holds the per-organization HR attributes of a user. One
// active profile exists per (user, organization) pair.
type EmployeeProfile struct {
	BaseModel

	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_profile_user_org,priority:1" json:"user_id"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex:idx_profile_user_org,priority:2" json:"organization_id"`

	Department string `gorm:"type:varchar(32);not null;index" json:"department"`
	Role       string `gorm:"type:varchar(16);not null;default:member" json:"role"`
	IsManager  bool   `gorm:"default:false" json:"is_manager"`

	JobTitle string     `json:"job_title"`
	HiredAt  *time.Time `json:"hired_at"`
	IsActive bool       `gorm:"default:true" json:"is_active"`
}

// TableName overrides the default table name for GORM.
func (EmployeeProfile) TableName() string {
	return "employee_profiles"
}
