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

// CreateBillInput carries the fields accepted when recording a payable.
type CreateBillInput struct {
	VendorName  string     `json:"vendor_name" validate:"required,min=1,max=255"`
	Reference   string     `json:"reference" validate:"max=64"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	DueDate     *time.Time `json:"due_date"`
}

// BillListOptions filters bill queries.
type BillListOptions struct {
	Status string
	Page   int
	Limit  int
}

// BillService implements finance operations behind the finance gates: reads
// require view access, mutations require write access.
type BillService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewBillService constructs a BillService.
func NewBillService(db *gorm.DB, audit *AuditService) (*BillService, error) {
	if db == nil {
		return nil, errors.New("bill service: db is required")
	}
	return &BillService{db: db, audit: audit}, nil
}

// List returns the organization's bills, optionally filtered by status.
func (s *BillService) List(ctx context.Context, identity *access.Identity, opts BillListOptions) ([]models.Bill, int64, error) {
	ctx = ensureContext(ctx)

	if err := access.RequireFinanceViewAccess(identity); err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Model(&models.Bill{}).
		Where("organization_id = ?", identity.OrganizationID)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("bill service: count bills: %w", err)
	}

	var bills []models.Bill
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bills).Error; err != nil {
		return nil, 0, fmt.Errorf("bill service: list bills: %w", err)
	}

	return bills, total, nil
}

// Get loads a single bill.
func (s *BillService) Get(ctx context.Context, identity *access.Identity, billID string) (*models.Bill, error) {
	ctx = ensureContext(ctx)

	if err := access.RequireFinanceViewAccess(identity); err != nil {
		return nil, err
	}

	return s.load(ctx, identity, billID)
}

// Create records a new payable in draft status.
func (s *BillService) Create(ctx context.Context, identity *access.Identity, input CreateBillInput) (*models.Bill, error) {
	ctx = ensureContext(ctx)

	if err := access.RequireFinanceWriteAccess(identity); err != nil {
		return nil, err
	}

	if trimmed(input.VendorName) == "" {
		return nil, apperrors.NewBadRequest("vendor name is required")
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.NewBadRequest("amount must be positive")
	}

	currency := trimmed(input.Currency)
	if currency == "" {
		currency = "USD"
	}

	bill := &models.Bill{
		OrganizationID: identity.OrganizationID,
		VendorName:     trimmed(input.VendorName),
		Reference:      trimmed(input.Reference),
		AmountCents:    input.AmountCents,
		Currency:       currency,
		Status:         models.BillStatusDraft,
		DueDate:        input.DueDate,
		CreatedByID:    identity.UserID,
	}

	if err := s.db.WithContext(ctx).Create(bill).Error; err != nil {
		return nil, fmt.Errorf("bill service: create bill: %w", err)
	}

	s.auditAction(ctx, identity, "bill.create", bill.ID)
	return bill, nil
}

// Approve moves a draft bill to approved.
func (s *BillService) Approve(ctx context.Context, identity *access.Identity, billID string) (*models.Bill, error) {
	return s.transition(ctx, identity, billID, models.BillStatusDraft, models.BillStatusApproved, "bill.approve", nil)
}

// MarkPaid moves an approved bill to paid and stamps the payment time.
func (s *BillService) MarkPaid(ctx context.Context, identity *access.Identity, billID string) (*models.Bill, error) {
	now := time.Now()
	return s.transition(ctx, identity, billID, models.BillStatusApproved, models.BillStatusPaid, "bill.mark_paid", &now)
}

func (s *BillService) transition(ctx context.Context, identity *access.Identity, billID, from, to, action string, paidAt *time.Time) (*models.Bill, error) {
	ctx = ensureContext(ctx)

	if err := access.RequireFinanceWriteAccess(identity); err != nil {
		return nil, err
	}

	bill, err := s.load(ctx, identity, billID)
	if err != nil {
		return nil, err
	}

	if bill.Status != from {
		return nil, apperrors.NewBadRequest(
			fmt.Sprintf("bill is %s, expected %s", bill.Status, from))
	}

	updates := map[string]any{"status": to}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	if err := s.db.WithContext(ctx).Model(bill).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("bill service: update bill: %w", err)
	}

	bill.Status = to
	if paidAt != nil {
		bill.PaidAt = paidAt
	}

	s.auditAction(ctx, identity, action, bill.ID)
	return bill, nil
}

func (s *BillService) load(ctx context.Context, identity *access.Identity, billID string) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", billID, identity.OrganizationID).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("bill service: load bill: %w", err)
	}
	return &bill, nil
}

func (s *BillService) auditAction(ctx context.Context, identity *access.Identity, action, resource string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Log(ctx, AuditEntry{
		UserID:         strPtr(identity.UserID),
		OrganizationID: strPtr(identity.OrganizationID),
		Action:         action,
		Resource:       resource,
		Result:         "success",
	})
}
