package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/backend/internal/domain/ledger"
)

func TestVoucherStatusModelFromDomain(t *testing.T) {
	computedAt := time.Now().UTC()

	t.Run("reconciled status carries the payment columns", func(t *testing.T) {
		status := ledger.VoucherStatus{
			CustomerID:          uuid.New(),
			VoucherID:           uuid.New(),
			VoucherNumber:       "INV-0042",
			VoucherKind:         ledger.VoucherKindTaxInvoice,
			IssueDate:           time.Now(),
			Amount:              decimal.NewFromInt(10000),
			State:               ledger.PaymentStatePartiallyPaid,
			UnpaidAmount:        decimal.NewFromInt(4000),
			CreditDaysElapsed:   12,
			CreditPeriodCrossed: false,
		}

		model := VoucherStatusModelFromDomain(status, computedAt)

		require.NotNil(t, model.IsPartiallyPaid)
		assert.True(t, *model.IsPartiallyPaid)
		require.NotNil(t, model.UnpaidAmount)
		assert.True(t, model.UnpaidAmount.Equal(decimal.NewFromInt(4000)))
		require.NotNil(t, model.CreditDaysElapsed)
		assert.Equal(t, 12, *model.CreditDaysElapsed)
		require.NotNil(t, model.CreditPeriodCrossed)
		assert.False(t, *model.CreditPeriodCrossed)
	})

	t.Run("non-reconciled status persists nulls across the payment columns", func(t *testing.T) {
		status := ledger.VoucherStatus{
			CustomerID:    uuid.New(),
			VoucherID:     uuid.New(),
			VoucherNumber: "RCT-0007",
			VoucherKind:   ledger.VoucherKindReceipt,
			IssueDate:     time.Now(),
			Amount:        decimal.NewFromInt(2500),
			State:         ledger.PaymentStateNotApplicable,
		}

		model := VoucherStatusModelFromDomain(status, computedAt)

		assert.Nil(t, model.IsUnpaid)
		assert.Nil(t, model.IsPartiallyPaid)
		assert.Nil(t, model.IsFullyPaid)
		assert.Nil(t, model.UnpaidAmount)
		assert.Nil(t, model.CreditDaysElapsed)
		assert.Nil(t, model.CreditPeriodCrossed)
	})
}

func TestVoucherStatusModelToDomain(t *testing.T) {
	t.Run("null payment columns map back to zero values", func(t *testing.T) {
		model := &VoucherStatusModel{
			VoucherID:     uuid.New(),
			CustomerID:    uuid.New(),
			VoucherNumber: "RCT-0007",
			VoucherKind:   ledger.VoucherKindReceipt,
			Amount:        decimal.NewFromInt(2500),
		}

		status := model.ToDomain()

		assert.Equal(t, ledger.PaymentStateNotApplicable, status.State)
		assert.True(t, status.UnpaidAmount.IsZero())
		assert.Equal(t, 0, status.CreditDaysElapsed)
		assert.False(t, status.CreditPeriodCrossed)
	})

	t.Run("populated payment columns round-trip", func(t *testing.T) {
		unpaidAmount := decimal.NewFromInt(9000)
		creditDaysElapsed := 52
		creditPeriodCrossed := true
		isUnpaid := true
		isOther := false
		model := &VoucherStatusModel{
			VoucherID:           uuid.New(),
			CustomerID:          uuid.New(),
			VoucherNumber:       "INV-0033",
			VoucherKind:         ledger.VoucherKindTaxInvoice,
			Amount:              decimal.NewFromInt(9000),
			IsUnpaid:            &isUnpaid,
			IsPartiallyPaid:     &isOther,
			IsFullyPaid:         &isOther,
			UnpaidAmount:        &unpaidAmount,
			CreditDaysElapsed:   &creditDaysElapsed,
			CreditPeriodCrossed: &creditPeriodCrossed,
		}

		status := model.ToDomain()

		assert.Equal(t, ledger.PaymentStateUnpaid, status.State)
		assert.True(t, status.UnpaidAmount.Equal(unpaidAmount))
		assert.Equal(t, 52, status.CreditDaysElapsed)
		assert.True(t, status.CreditPeriodCrossed)
	})
}
