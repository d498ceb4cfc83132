package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Allocator is the domain service that spreads a customer's single running
// outstanding balance across their vouchers, newest first, deciding which tax
// invoices are unpaid, partially paid or fully paid.
//
// The evaluation date is an explicit parameter so the computation is pure and
// reproducible; the allocator never reads ambient time.
type Allocator struct{}

// NewAllocator creates a new balance allocator
func NewAllocator() *Allocator {
	return &Allocator{}
}

// SkippedVoucher records a voucher that could not be allocated
type SkippedVoucher struct {
	VoucherID string `json:"voucher_id"`
	Number    string `json:"number"`
	Reason    string `json:"reason"`
}

// AllocationResult is the outcome of allocating one customer's balance
type AllocationResult struct {
	Statuses         []VoucherStatus // one per processed voucher, newest first
	StartingBalance  decimal.Decimal // balance the pass began with (clamped at zero)
	RemainingBalance decimal.Decimal // balance left after the pass
	Skipped          []SkippedVoucher
}

// Allocate walks the customer's vouchers newest-to-oldest and consumes the
// outstanding balance invoice by invoice:
//
//   - remaining >= amount: the invoice is entirely unpaid
//   - 0 < remaining < amount: partially paid, the remainder covers the rest
//   - remaining == 0: fully paid
//
// The ordering is load-bearing: the balance protects the most recent debt
// first. Caller-supplied order is never trusted; the allocator sorts by issue
// date descending with the import sequence as the stable tie-break so
// repeated runs on unchanged input produce identical output.
//
// Non-tax-invoice vouchers are recorded with the NOT_APPLICABLE state and do
// not touch the balance. A tax invoice without an amount is skipped and
// reported, not fatal. A negative amount or a voucher belonging to another
// customer is a configuration error and fails the whole allocation before
// any status is produced.
func (a *Allocator) Allocate(profile *CreditProfile, vouchers []Voucher, asOf time.Time) (*AllocationResult, error) {
	if profile == nil {
		return nil, shared.NewDomainError("MISSING_PROFILE", "Credit profile cannot be nil")
	}
	if asOf.IsZero() {
		return nil, shared.NewDomainError("INVALID_AS_OF",
			fmt.Sprintf("Evaluation date for customer %s cannot be zero", profile.CustomerID))
	}
	for _, v := range vouchers {
		if v.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT",
				fmt.Sprintf("Voucher %s for customer %s has a negative amount", v.ID, profile.CustomerID))
		}
		if v.CustomerID != profile.CustomerID {
			return nil, shared.NewDomainError("CUSTOMER_MISMATCH",
				fmt.Sprintf("Voucher %s belongs to customer %s, not %s", v.ID, v.CustomerID, profile.CustomerID))
		}
	}

	ordered := make([]Voucher, len(vouchers))
	copy(ordered, vouchers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].IssueDate.Equal(ordered[j].IssueDate) {
			return ordered[i].IssueDate.After(ordered[j].IssueDate)
		}
		if ordered[i].Sequence != ordered[j].Sequence {
			return ordered[i].Sequence > ordered[j].Sequence
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	// A zero or negative import balance means nothing is owed: every tax
	// invoice comes out fully paid and the balance stays clamped at zero.
	starting := profile.OutstandingBalance
	if starting.IsNegative() {
		starting = decimal.Zero
	}
	remaining := starting

	result := &AllocationResult{
		Statuses:        make([]VoucherStatus, 0, len(ordered)),
		StartingBalance: starting,
		Skipped:         make([]SkippedVoucher, 0),
	}

	for _, v := range ordered {
		status := VoucherStatus{
			CustomerID:      profile.CustomerID,
			VoucherID:       v.ID,
			VoucherNumber:   v.Number,
			VoucherKind:     v.Kind,
			VoucherCategory: v.Category,
			IssueDate:       v.IssueDate,
			Amount:          v.Amount,
		}

		if !v.Kind.IsReconcilable() {
			status.State = PaymentStateNotApplicable
			result.Statuses = append(result.Statuses, status)
			continue
		}

		if v.Amount.IsZero() {
			result.Skipped = append(result.Skipped, SkippedVoucher{
				VoucherID: v.ID.String(),
				Number:    v.Number,
				Reason:    "tax invoice has no amount",
			})
			continue
		}

		switch {
		case remaining.GreaterThanOrEqual(v.Amount):
			status.UnpaidAmount = v.Amount
			status.State = PaymentStateUnpaid
			remaining = remaining.Sub(v.Amount)
		case remaining.IsPositive():
			status.UnpaidAmount = remaining
			status.State = PaymentStatePartiallyPaid
			remaining = decimal.Zero
		default:
			status.UnpaidAmount = decimal.Zero
			status.State = PaymentStateFullyPaid
		}

		if status.State == PaymentStateFullyPaid {
			status.CreditDaysElapsed = 0
			status.CreditPeriodCrossed = false
		} else {
			status.CreditDaysElapsed = wholeDaysBetween(v.IssueDate, asOf)
			status.CreditPeriodCrossed = status.CreditDaysElapsed > profile.CreditPeriodDays
		}

		result.Statuses = append(result.Statuses, status)
	}

	result.RemainingBalance = remaining
	return result, nil
}

// wholeDaysBetween counts complete calendar days from issue to the
// evaluation date, ignoring the time-of-day component.
func wholeDaysBetween(issue, asOf time.Time) int {
	issueDay := time.Date(issue.Year(), issue.Month(), issue.Day(), 0, 0, 0, 0, time.UTC)
	asOfDay := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(asOfDay.Sub(issueDay) / (24 * time.Hour))
}
