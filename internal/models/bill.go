package models

import (
	"time"

	"gorm.io/datatypes"
)

// Bill payment states.
const (
	BillStatusDraft    = "draft"
	BillStatusApproved = "approved"
	BillStatusPaid     = "paid"
)

// Bill is an organization-scoped payable. Amounts are stored in cents to
// avoid floating point drift.
type Bill struct {
	BaseModel

	OrganizationID string `gorm:"type:uuid;not null;index" json:"organization_id"`
	VendorName     string `gorm:"not null" json:"vendor_name"`
	Reference      string `gorm:"index" json:"reference"`

	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Currency    string `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	Status      string `gorm:"type:varchar(16);not null;default:draft;index" json:"status"`

	DueDate *time.Time `json:"due_date"`
	PaidAt  *time.Time `json:"paid_at"`

	CreatedByID string         `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy   *User          `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LineItems   datatypes.JSON `json:"line_items"`
}
