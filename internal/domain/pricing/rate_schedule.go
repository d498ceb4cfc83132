package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateKind identifies which business context a rate schedule belongs to
type RateKind string

const (
	RateKindIncentive RateKind = "INCENTIVE" // per-unit salesperson incentive
	RateKindPrice     RateKind = "PRICE"     // per-unit selling price
	RateKindCourier   RateKind = "COURIER"   // per-unit courier charge
)

// IsValid checks if the rate kind is valid
func (k RateKind) IsValid() bool {
	switch k {
	case RateKindIncentive, RateKindPrice, RateKindCourier:
		return true
	}
	return false
}

// String returns the string representation of RateKind
func (k RateKind) String() string {
	return string(k)
}

// Tier is a single quantity band: the rate applies once the observed
// quantity reaches MinQuantity.
type Tier struct {
	MinQuantity int64           `json:"min_quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// RateSchedule holds the flat rate and optional quantity-banded tiers for
// one subject (a product's incentive, a product's price, a shipping lane).
// Tiers only apply when HasDynamicRate is set; otherwise FlatRate always wins.
type RateSchedule struct {
	shared.BaseAggregateRoot
	SubjectID      uuid.UUID       `json:"subject_id"`
	SubjectName    string          `json:"subject_name"`
	Kind           RateKind        `json:"kind"`
	Variant        string          `json:"variant"` // e.g. salesperson role (ASM/RSM) or courier mode (surface/air)
	FlatRate       decimal.Decimal `json:"flat_rate"`
	HasDynamicRate bool            `json:"has_dynamic_rate"`
	Tiers          []Tier          `json:"tiers"`
	// PRICE-kind extras carried from the product price sheet
	MinOrderQuantity int64           `json:"min_order_quantity"`
	TaxRatePercent   decimal.Decimal `json:"tax_rate_percent"`
}

// NewRateSchedule creates a validated rate schedule.
// Tiers must be supplied with strictly increasing MinQuantity; the schedule
// may be empty (callers then fall back to the flat rate).
func NewRateSchedule(
	subjectID uuid.UUID,
	subjectName string,
	kind RateKind,
	variant string,
	flatRate decimal.Decimal,
	hasDynamicRate bool,
	tiers []Tier,
) (*RateSchedule, error) {
	if subjectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_RATE_KIND", fmt.Sprintf("Rate kind %q is not valid", kind))
	}
	if flatRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Flat rate for subject %s cannot be negative", subjectID))
	}
	if err := validateTiers(subjectID, tiers); err != nil {
		return nil, err
	}

	return &RateSchedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SubjectID:         subjectID,
		SubjectName:       subjectName,
		Kind:              kind,
		Variant:           variant,
		FlatRate:          flatRate,
		HasDynamicRate:    hasDynamicRate,
		Tiers:             tiers,
		MinOrderQuantity:  1,
	}, nil
}

// validateTiers rejects non-increasing thresholds and negative values up front
// so a misconfigured schedule never reaches resolution.
func validateTiers(subjectID uuid.UUID, tiers []Tier) error {
	for i, tier := range tiers {
		if tier.MinQuantity < 0 {
			return shared.NewDomainError("INVALID_TIERS",
				fmt.Sprintf("Tier %d for subject %s has negative minimum quantity", i, subjectID))
		}
		if tier.Rate.IsNegative() {
			return shared.NewDomainError("INVALID_TIERS",
				fmt.Sprintf("Tier %d for subject %s has negative rate", i, subjectID))
		}
		if i > 0 && tier.MinQuantity <= tiers[i-1].MinQuantity {
			return shared.NewDomainError("INVALID_TIERS",
				fmt.Sprintf("Tiers for subject %s must have strictly increasing minimum quantities", subjectID))
		}
	}
	return nil
}

// Validate re-checks the schedule invariants (used after loading from storage)
func (s *RateSchedule) Validate() error {
	if !s.Kind.IsValid() {
		return shared.NewDomainError("INVALID_RATE_KIND", fmt.Sprintf("Rate kind %q is not valid", s.Kind))
	}
	if s.FlatRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE",
			fmt.Sprintf("Flat rate for subject %s cannot be negative", s.SubjectID))
	}
	return validateTiers(s.SubjectID, s.Tiers)
}

// SetMinOrderQuantity sets the minimum order quantity (PRICE kind)
func (s *RateSchedule) SetMinOrderQuantity(qty int64) error {
	if qty < 1 {
		return shared.NewDomainError("INVALID_INPUT", "Minimum order quantity must be at least 1")
	}
	s.MinOrderQuantity = qty
	return nil
}

// SetTaxRatePercent sets the tax rate percentage (PRICE kind)
func (s *RateSchedule) SetTaxRatePercent(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Tax rate cannot be negative")
	}
	s.TaxRatePercent = rate
	return nil
}

// TierCount returns the number of tiers in the schedule
func (s *RateSchedule) TierCount() int {
	return len(s.Tiers)
}
