package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherStatus is the per-(customer, voucher) output of a reconciliation
// run. The full set for a customer is recomputed and overwritten wholesale
// on every run; it is never updated incrementally.
type VoucherStatus struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	VoucherID       uuid.UUID       `json:"voucher_id"`
	VoucherNumber   string          `json:"voucher_number"`
	VoucherKind     VoucherKind     `json:"voucher_kind"`
	VoucherCategory string          `json:"voucher_category"`
	IssueDate       time.Time       `json:"issue_date"`
	Amount          decimal.Decimal `json:"amount"`

	State PaymentState `json:"state"`
	// UnpaidAmount and the credit fields are meaningful only when
	// State.IsReconciled(); for NOT_APPLICABLE they stay zero and the
	// storage layer persists nulls.
	UnpaidAmount        decimal.Decimal `json:"unpaid_amount"`
	CreditDaysElapsed   int             `json:"credit_days_elapsed"`
	CreditPeriodCrossed bool            `json:"credit_period_crossed"`
}

// CoveredAmount returns how much of the voucher the running balance did not
// reach, i.e. the part considered already paid.
func (s VoucherStatus) CoveredAmount() decimal.Decimal {
	if !s.State.IsReconciled() {
		return decimal.Zero
	}
	return s.Amount.Sub(s.UnpaidAmount)
}
