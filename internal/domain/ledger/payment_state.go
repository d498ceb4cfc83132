package ledger

// PaymentState is the allocation outcome for one voucher. It replaces the
// three mutually exclusive booleans the reporting layer consumes; the
// boolean triple is only projected at the storage boundary.
type PaymentState string

const (
	PaymentStateUnpaid        PaymentState = "UNPAID"
	PaymentStatePartiallyPaid PaymentState = "PARTIALLY_PAID"
	PaymentStateFullyPaid     PaymentState = "FULLY_PAID"
	// PaymentStateNotApplicable marks vouchers that are not tax invoices
	// and therefore carry no payment information at all.
	PaymentStateNotApplicable PaymentState = "NOT_APPLICABLE"
)

// IsValid checks if the payment state is valid
func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentStateUnpaid, PaymentStatePartiallyPaid, PaymentStateFullyPaid, PaymentStateNotApplicable:
		return true
	}
	return false
}

// String returns the string representation of PaymentState
func (s PaymentState) String() string {
	return string(s)
}

// IsReconciled returns true for states produced by balance allocation
func (s PaymentState) IsReconciled() bool {
	return s == PaymentStateUnpaid || s == PaymentStatePartiallyPaid || s == PaymentStateFullyPaid
}

// Flags projects the state onto the legacy boolean triple consumed by the
// reporting schema. All three are nil for NOT_APPLICABLE; exactly one is
// true otherwise.
func (s PaymentState) Flags() (isUnpaid, isPartiallyPaid, isFullyPaid *bool) {
	if !s.IsReconciled() {
		return nil, nil, nil
	}
	u := s == PaymentStateUnpaid
	p := s == PaymentStatePartiallyPaid
	f := s == PaymentStateFullyPaid
	return &u, &p, &f
}

// PaymentStateFromFlags rebuilds the state from stored booleans
func PaymentStateFromFlags(isUnpaid, isPartiallyPaid, isFullyPaid *bool) PaymentState {
	switch {
	case isUnpaid == nil || isPartiallyPaid == nil || isFullyPaid == nil:
		return PaymentStateNotApplicable
	case *isUnpaid:
		return PaymentStateUnpaid
	case *isPartiallyPaid:
		return PaymentStatePartiallyPaid
	case *isFullyPaid:
		return PaymentStateFullyPaid
	default:
		return PaymentStateNotApplicable
	}
}
