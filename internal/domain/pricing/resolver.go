package pricing

import (
	"fmt"

	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BelowThresholdPolicy decides what happens when the observed quantity is
// below every tier of a dynamic schedule. The source contexts disagree on
// this, so the policy is an explicit parameter rather than a hard-coded rule:
// incentives and dynamic prices resolve to zero, courier slabs resolve to
// "no charge at all".
type BelowThresholdPolicy string

const (
	BelowThresholdZero BelowThresholdPolicy = "ZERO" // resolve to a zero rate
	BelowThresholdNone BelowThresholdPolicy = "NONE" // no applicable rate
)

// IsValid checks if the policy is valid
func (p BelowThresholdPolicy) IsValid() bool {
	return p == BelowThresholdZero || p == BelowThresholdNone
}

// String returns the string representation of the policy
func (p BelowThresholdPolicy) String() string {
	return string(p)
}

// Resolution is the outcome of resolving a rate for an observed quantity.
// Applied is false only when a dynamic schedule had no qualifying tier and
// the policy was BelowThresholdNone.
type Resolution struct {
	Rate        decimal.Decimal
	Applied     bool
	FromTier    bool  // true when a tier supplied the rate (vs the flat rate)
	TierMinimum int64 // MinQuantity of the matched tier, 0 otherwise
}

// Resolve returns the applicable rate for a cumulative observed quantity.
//
// The quantity must be the sum of all line-item quantities for the subject
// across the evaluation window - aggregate first, resolve once. Resolution
// picks the tier with the largest MinQuantity not exceeding the quantity;
// schedules without dynamic rates always return the flat rate.
func (s *RateSchedule) Resolve(observedQuantity int64, policy BelowThresholdPolicy) (Resolution, error) {
	if observedQuantity < 0 {
		return Resolution{}, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Observed quantity for subject %s cannot be negative", s.SubjectID))
	}
	if !policy.IsValid() {
		return Resolution{}, shared.NewDomainError("INVALID_POLICY",
			fmt.Sprintf("Below-threshold policy %q is not valid", policy))
	}
	if err := validateTiers(s.SubjectID, s.Tiers); err != nil {
		return Resolution{}, err
	}

	if !s.HasDynamicRate {
		return Resolution{Rate: s.FlatRate, Applied: true}, nil
	}

	// Tiers are ordered ascending, so scan from the end for the highest
	// threshold the quantity reaches.
	for i := len(s.Tiers) - 1; i >= 0; i-- {
		if observedQuantity >= s.Tiers[i].MinQuantity {
			return Resolution{
				Rate:        s.Tiers[i].Rate,
				Applied:     true,
				FromTier:    true,
				TierMinimum: s.Tiers[i].MinQuantity,
			}, nil
		}
	}

	switch policy {
	case BelowThresholdNone:
		return Resolution{Rate: decimal.Zero, Applied: false}, nil
	default:
		return Resolution{Rate: decimal.Zero, Applied: true}, nil
	}
}
