package models

import "gorm.io/datatypes"

// Organization is the tenant-isolation boundary. Every domain query is
// scoped to exactly one organization.
type Organization struct {
	BaseModel

	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Settings    datatypes.JSON `json:"settings"`

	Users    []User            `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Profiles []EmployeeProfile `gorm:"foreignKey:OrganizationID" json:"profiles,omitempty"`
	Projects []Project         `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
}
