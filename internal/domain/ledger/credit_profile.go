package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreditProfile tracks a customer's single running outstanding balance and
// contractual credit period. The balance is imported periodically from the
// accounting ledger; reconciliation consumes it fresh on every run and only
// the import mutates the stored value between runs.
//
// Convention: a positive balance means the customer owes money.
type CreditProfile struct {
	shared.BaseAggregateRoot
	CustomerID         uuid.UUID       `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreditPeriodDays   int             `json:"credit_period_days"`
}

// NewCreditProfile creates a new credit profile for a customer
func NewCreditProfile(customerID uuid.UUID, customerName string, outstandingBalance decimal.Decimal, creditPeriodDays int) (*CreditProfile, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if creditPeriodDays < 0 {
		return nil, shared.NewDomainError("INVALID_CREDIT_PERIOD",
			fmt.Sprintf("Credit period for customer %s cannot be negative", customerID))
	}

	return &CreditProfile{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		CustomerID:         customerID,
		CustomerName:       customerName,
		OutstandingBalance: outstandingBalance,
		CreditPeriodDays:   creditPeriodDays,
	}, nil
}

// UpdateFromImport replaces the balance and credit period from a ledger import
func (p *CreditProfile) UpdateFromImport(outstandingBalance decimal.Decimal, creditPeriodDays int) error {
	if creditPeriodDays < 0 {
		return shared.NewDomainError("INVALID_CREDIT_PERIOD",
			fmt.Sprintf("Credit period for customer %s cannot be negative", p.CustomerID))
	}
	p.OutstandingBalance = outstandingBalance
	p.CreditPeriodDays = creditPeriodDays
	p.IncrementVersion()
	return nil
}

// SetOutstandingBalance writes the post-allocation balance back to the profile
func (p *CreditProfile) SetOutstandingBalance(balance decimal.Decimal) {
	p.OutstandingBalance = balance
	p.IncrementVersion()
}

// HasDebt returns true if the customer currently owes money
func (p *CreditProfile) HasDebt() bool {
	return p.OutstandingBalance.IsPositive()
}
