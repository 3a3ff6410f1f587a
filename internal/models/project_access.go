package models

// Stored access levels on a project grant. They map 1:1 onto the derived
// view/edit permissions.
const (
	AccessLevelRead  = "read"
	AccessLevelWrite = "write"
)

// ProjectAccess stores an explicit per-user grant on a project. At most one
// row exists per (project, user); re-granting updates the row in place.
type ProjectAccess struct {
	BaseModel

	ProjectID      string `gorm:"type:uuid;not null;uniqueIndex:idx_project_access_user,priority:1" json:"project_id"`
	UserID         string `gorm:"type:uuid;not null;uniqueIndex:idx_project_access_user,priority:2" json:"user_id"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrganizationID string `gorm:"type:uuid;not null;index" json:"organization_id"`

	AccessLevel string  `gorm:"type:varchar(16);not null" json:"access_level"`
	GrantedByID *string `gorm:"type:uuid;index" json:"granted_by_id"`
}

// TableName overrides the default table name for GORM.
func (ProjectAccess) TableName() string {
	return "project_accesses"
}
