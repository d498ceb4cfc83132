package ledger

import (
	"context"

	"github.com/google/uuid"
)

// VoucherStatusFilter defines filtering options for voucher status queries
type VoucherStatusFilter struct {
	CustomerID          *uuid.UUID    // Filter by customer
	State               *PaymentState // Filter by payment state
	CreditPeriodCrossed *bool         // Filter vouchers past their credit period
	Limit               int
	Offset              int
}

// CreditProfileRepository defines the interface for credit profile persistence
type CreditProfileRepository interface {
	// FindByCustomerID finds the credit profile for a customer
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*CreditProfile, error)

	// FindAll returns every credit profile
	FindAll(ctx context.Context) ([]CreditProfile, error)

	// FindWithDebt returns profiles whose outstanding balance is positive
	FindWithDebt(ctx context.Context) ([]CreditProfile, error)

	// Save creates or updates a credit profile
	Save(ctx context.Context, profile *CreditProfile) error

	// Delete removes a credit profile
	Delete(ctx context.Context, customerID uuid.UUID) error
}

// VoucherRepository defines the interface for voucher reads.
// Vouchers are imported from the accounting system and are read-only here.
type VoucherRepository interface {
	// FindByID finds a voucher by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)

	// FindByCustomer returns all vouchers for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Voucher, error)

	// FindLineItems returns the line items of a voucher
	FindLineItems(ctx context.Context, voucherID uuid.UUID) ([]VoucherLineItem, error)
}

// VoucherStatusRepository defines the interface for reconciled status reads
type VoucherStatusRepository interface {
	// FindByCustomer returns the current statuses for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter VoucherStatusFilter) ([]VoucherStatus, error)

	// FindByVoucher returns the current status for one voucher
	FindByVoucher(ctx context.Context, voucherID uuid.UUID) (*VoucherStatus, error)

	// FindOverdue returns statuses whose credit period has been crossed
	FindOverdue(ctx context.Context, filter VoucherStatusFilter) ([]VoucherStatus, error)
}

// ReconciliationWriter commits the outcome of one customer's allocation.
// Implementations must replace the customer's previous statuses and the new
// ones in a single transaction so a failed run leaves the prior state intact.
type ReconciliationWriter interface {
	// ReplaceForCustomer atomically swaps all statuses for the customer
	ReplaceForCustomer(ctx context.Context, customerID uuid.UUID, statuses []VoucherStatus) error
}
