package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateKind(t *testing.T) {
	t.Run("IsValid returns true for valid kinds", func(t *testing.T) {
		assert.True(t, RateKindIncentive.IsValid())
		assert.True(t, RateKindPrice.IsValid())
		assert.True(t, RateKindCourier.IsValid())
	})

	t.Run("IsValid returns false for invalid kinds", func(t *testing.T) {
		assert.False(t, RateKind("DISCOUNT").IsValid())
		assert.False(t, RateKind("").IsValid())
	})
}

func TestNewRateSchedule(t *testing.T) {
	subjectID := uuid.New()

	t.Run("creates a valid schedule", func(t *testing.T) {
		s, err := NewRateSchedule(subjectID, "Widget", RateKindIncentive, "ASM",
			decimal.NewFromInt(5), true, []Tier{
				{MinQuantity: 100, Rate: decimal.NewFromInt(6)},
				{MinQuantity: 500, Rate: decimal.NewFromInt(8)},
			})
		require.NoError(t, err)
		assert.Equal(t, subjectID, s.SubjectID)
		assert.Equal(t, RateKindIncentive, s.Kind)
		assert.Equal(t, "ASM", s.Variant)
		assert.Equal(t, 2, s.TierCount())
		assert.Equal(t, int64(1), s.MinOrderQuantity)
	})

	t.Run("rejects nil subject", func(t *testing.T) {
		_, err := NewRateSchedule(uuid.Nil, "", RateKindPrice, "", decimal.NewFromInt(5), false, nil)
		assert.Error(t, err)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewRateSchedule(subjectID, "", RateKind("BOGUS"), "", decimal.NewFromInt(5), false, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative flat rate", func(t *testing.T) {
		_, err := NewRateSchedule(subjectID, "", RateKindPrice, "", decimal.NewFromInt(-1), false, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-increasing tier thresholds", func(t *testing.T) {
		_, err := NewRateSchedule(subjectID, "", RateKindPrice, "", decimal.NewFromInt(5), true, []Tier{
			{MinQuantity: 100, Rate: decimal.NewFromInt(6)},
			{MinQuantity: 100, Rate: decimal.NewFromInt(8)},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "strictly increasing")

		_, err = NewRateSchedule(subjectID, "", RateKindPrice, "", decimal.NewFromInt(5), true, []Tier{
			{MinQuantity: 500, Rate: decimal.NewFromInt(6)},
			{MinQuantity: 100, Rate: decimal.NewFromInt(8)},
		})
		assert.Error(t, err)
	})

	t.Run("rejects negative tier values", func(t *testing.T) {
		_, err := NewRateSchedule(subjectID, "", RateKindPrice, "", decimal.NewFromInt(5), true, []Tier{
			{MinQuantity: -10, Rate: decimal.NewFromInt(6)},
		})
		assert.Error(t, err)

		_, err = NewRateSchedule(subjectID, "", RateKindPrice, "", decimal.NewFromInt(5), true, []Tier{
			{MinQuantity: 10, Rate: decimal.NewFromInt(-6)},
		})
		assert.Error(t, err)
	})

	t.Run("empty tier list is allowed", func(t *testing.T) {
		s, err := NewRateSchedule(subjectID, "", RateKindCourier, "surface", decimal.Zero, true, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, s.TierCount())
	})
}

func TestRateScheduleSetters(t *testing.T) {
	s, err := NewRateSchedule(uuid.New(), "Widget", RateKindPrice, "",
		decimal.NewFromInt(100), false, nil)
	require.NoError(t, err)

	t.Run("SetMinOrderQuantity accepts positive values", func(t *testing.T) {
		require.NoError(t, s.SetMinOrderQuantity(12))
		assert.Equal(t, int64(12), s.MinOrderQuantity)
	})

	t.Run("SetMinOrderQuantity rejects values below 1", func(t *testing.T) {
		assert.Error(t, s.SetMinOrderQuantity(0))
	})

	t.Run("SetTaxRatePercent accepts non-negative values", func(t *testing.T) {
		require.NoError(t, s.SetTaxRatePercent(decimal.NewFromInt(18)))
		assert.True(t, s.TaxRatePercent.Equal(decimal.NewFromInt(18)))
	})

	t.Run("SetTaxRatePercent rejects negative values", func(t *testing.T) {
		assert.Error(t, s.SetTaxRatePercent(decimal.NewFromInt(-5)))
	})
}

func TestRateScheduleValidate(t *testing.T) {
	t.Run("flags corrupted tiers loaded from storage", func(t *testing.T) {
		s, err := NewRateSchedule(uuid.New(), "Widget", RateKindPrice, "",
			decimal.NewFromInt(100), true, []Tier{{MinQuantity: 10, Rate: decimal.NewFromInt(90)}})
		require.NoError(t, err)

		s.Tiers = append(s.Tiers, Tier{MinQuantity: 5, Rate: decimal.NewFromInt(80)})
		assert.Error(t, s.Validate())
	})
}
