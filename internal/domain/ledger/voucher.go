package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherKind is the accounting type of a voucher. Only tax invoices
// participate in balance allocation; every other kind is recorded with
// null payment fields.
type VoucherKind string

const (
	VoucherKindTaxInvoice   VoucherKind = "TAX_INVOICE"
	VoucherKindReceipt      VoucherKind = "RECEIPT"
	VoucherKindCreditNote   VoucherKind = "CREDIT_NOTE"
	VoucherKindJournalEntry VoucherKind = "JOURNAL"
)

// IsValid checks if the voucher kind is valid
func (k VoucherKind) IsValid() bool {
	switch k {
	case VoucherKindTaxInvoice, VoucherKindReceipt, VoucherKindCreditNote, VoucherKindJournalEntry:
		return true
	}
	return false
}

// String returns the string representation of VoucherKind
func (k VoucherKind) String() string {
	return string(k)
}

// IsReconcilable returns true if the kind participates in balance allocation
func (k VoucherKind) IsReconcilable() bool {
	return k == VoucherKindTaxInvoice
}

// Voucher is an immutable fact imported from the accounting system.
// Sequence is the import insertion order, used as the stable tie-break
// when two vouchers carry the same issue date.
type Voucher struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Number     string          `json:"number"`
	Kind       VoucherKind     `json:"kind"`
	Category   string          `json:"category"`
	IssueDate  time.Time       `json:"issue_date"`
	Amount     decimal.Decimal `json:"amount"`
	Sequence   int64           `json:"sequence"`
}

// VoucherLineItem is one stock row of a voucher, used to aggregate
// per-product quantities for rate resolution.
type VoucherLineItem struct {
	ID          uuid.UUID       `json:"id"`
	VoucherID   uuid.UUID       `json:"voucher_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}
