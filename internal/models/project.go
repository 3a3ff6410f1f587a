package models

import "gorm.io/datatypes"

// Project lifecycle states.
const (
	ProjectStatusActive   = "active"
	ProjectStatusOnHold   = "on_hold"
	ProjectStatusArchived = "archived"
)

// Project is an organization-scoped unit of work. Ownership and supervision
// are embedded fields, not separate grant records.
type Project struct {
	BaseModel

	OrganizationID string `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string `gorm:"not null" json:"name"`
	Description    string `json:"description"`
	Status         string `gorm:"type:varchar(16);not null;default:active" json:"status"`

	CreatedByID  string  `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy    *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	SupervisorID *string `gorm:"type:uuid;index" json:"supervisor_id"`
	Supervisor   *User   `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`

	Tags datatypes.JSON `json:"tags"`

	Accesses []ProjectAccess `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"accesses,omitempty"`
}
