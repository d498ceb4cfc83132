package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesops/backend/internal/domain/ledger"
)

// CreditProfileModel is the persistence model for the CreditProfile aggregate.
type CreditProfileModel struct {
	AggregateModel
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerName       string          `gorm:"type:varchar(200);not null"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditPeriodDays   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CreditProfileModel) TableName() string {
	return "credit_profiles"
}

// ToDomain converts the persistence model to a domain CreditProfile aggregate.
func (m *CreditProfileModel) ToDomain() *ledger.CreditProfile {
	profile := &ledger.CreditProfile{
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		OutstandingBalance: m.OutstandingBalance,
		CreditPeriodDays:   m.CreditPeriodDays,
	}
	m.PopulateAggregateRoot(&profile.BaseAggregateRoot)
	return profile
}

// FromDomain populates the persistence model from a domain CreditProfile aggregate.
func (m *CreditProfileModel) FromDomain(p *ledger.CreditProfile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CustomerID = p.CustomerID
	m.CustomerName = p.CustomerName
	m.OutstandingBalance = p.OutstandingBalance
	m.CreditPeriodDays = p.CreditPeriodDays
}

// CreditProfileModelFromDomain creates a new persistence model from a domain CreditProfile.
func CreditProfileModelFromDomain(p *ledger.CreditProfile) *CreditProfileModel {
	m := &CreditProfileModel{}
	m.FromDomain(p)
	return m
}

// VoucherModel is the persistence model for imported vouchers. Vouchers are
// written by the ledger import and read-only everywhere else, so there is no
// version column.
type VoucherModel struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Number     string             `gorm:"type:varchar(50);not null;index"`
	Kind       ledger.VoucherKind `gorm:"type:varchar(20);not null"`
	Category   string             `gorm:"type:varchar(100)"`
	IssueDate  time.Time          `gorm:"not null;index"`
	Amount     decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Sequence   int64              `gorm:"not null;index"`
	CreatedAt  time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// ToDomain converts the persistence model to a domain Voucher.
func (m *VoucherModel) ToDomain() ledger.Voucher {
	return ledger.Voucher{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Number:     m.Number,
		Kind:       m.Kind,
		Category:   m.Category,
		IssueDate:  m.IssueDate,
		Amount:     m.Amount,
		Sequence:   m.Sequence,
	}
}

// VoucherLineItemModel is the persistence model for voucher stock rows.
type VoucherLineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null;default:0"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (VoucherLineItemModel) TableName() string {
	return "voucher_line_items"
}

// ToDomain converts the persistence model to a domain VoucherLineItem.
func (m *VoucherLineItemModel) ToDomain() ledger.VoucherLineItem {
	return ledger.VoucherLineItem{
		ID:          m.ID,
		VoucherID:   m.VoucherID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Amount:      m.Amount,
	}
}

// VoucherStatusModel is the persistence model for reconciled voucher statuses.
// The payment flags keep the reporting schema's boolean triple: all three are
// null for vouchers outside allocation, exactly one is true otherwise. The
// unpaid amount and credit columns follow the flags and stay null for
// non-reconciled kinds. The whole set for a customer is swapped on every
// reconciliation run.
type VoucherStatusModel struct {
	VoucherID       uuid.UUID          `gorm:"type:uuid;primary_key"`
	CustomerID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	VoucherNumber   string             `gorm:"type:varchar(50);not null"`
	VoucherKind     ledger.VoucherKind `gorm:"type:varchar(20);not null"`
	VoucherCategory string             `gorm:"type:varchar(100)"`
	IssueDate       time.Time          `gorm:"not null"`
	Amount          decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`

	IsUnpaid        *bool `gorm:"index"`
	IsPartiallyPaid *bool
	IsFullyPaid     *bool

	UnpaidAmount        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreditDaysElapsed   *int
	CreditPeriodCrossed *bool     `gorm:"index"`
	ComputedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VoucherStatusModel) TableName() string {
	return "voucher_statuses"
}

// ToDomain converts the persistence model to a domain VoucherStatus.
// Null payment columns come back as zero values behind a NOT_APPLICABLE state.
func (m *VoucherStatusModel) ToDomain() ledger.VoucherStatus {
	status := ledger.VoucherStatus{
		CustomerID:      m.CustomerID,
		VoucherID:       m.VoucherID,
		VoucherNumber:   m.VoucherNumber,
		VoucherKind:     m.VoucherKind,
		VoucherCategory: m.VoucherCategory,
		IssueDate:       m.IssueDate,
		Amount:          m.Amount,
		State:           ledger.PaymentStateFromFlags(m.IsUnpaid, m.IsPartiallyPaid, m.IsFullyPaid),
		UnpaidAmount:    decimal.Zero,
	}
	if m.UnpaidAmount != nil {
		status.UnpaidAmount = *m.UnpaidAmount
	}
	if m.CreditDaysElapsed != nil {
		status.CreditDaysElapsed = *m.CreditDaysElapsed
	}
	if m.CreditPeriodCrossed != nil {
		status.CreditPeriodCrossed = *m.CreditPeriodCrossed
	}
	return status
}

// VoucherStatusModelFromDomain creates a new persistence model from a domain VoucherStatus.
func VoucherStatusModelFromDomain(s ledger.VoucherStatus, computedAt time.Time) *VoucherStatusModel {
	isUnpaid, isPartiallyPaid, isFullyPaid := s.State.Flags()
	model := &VoucherStatusModel{
		VoucherID:       s.VoucherID,
		CustomerID:      s.CustomerID,
		VoucherNumber:   s.VoucherNumber,
		VoucherKind:     s.VoucherKind,
		VoucherCategory: s.VoucherCategory,
		IssueDate:       s.IssueDate,
		Amount:          s.Amount,
		IsUnpaid:        isUnpaid,
		IsPartiallyPaid: isPartiallyPaid,
		IsFullyPaid:     isFullyPaid,
		ComputedAt:      computedAt,
	}
	if s.State.IsReconciled() {
		unpaidAmount := s.UnpaidAmount
		creditDaysElapsed := s.CreditDaysElapsed
		creditPeriodCrossed := s.CreditPeriodCrossed
		model.UnpaidAmount = &unpaidAmount
		model.CreditDaysElapsed = &creditDaysElapsed
		model.CreditPeriodCrossed = &creditPeriodCrossed
	}
	return model
}
