package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesops/backend/internal/domain/pricing"
)

// RateScheduleModel is the persistence model for the RateSchedule aggregate.
// Tiers are stored in their own table and loaded ordered by minimum quantity.
type RateScheduleModel struct {
	AggregateModel
	SubjectID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_rate_subject_kind_variant,priority:1"`
	SubjectName      string           `gorm:"type:varchar(200);not null"`
	Kind             pricing.RateKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_rate_subject_kind_variant,priority:2"`
	Variant          string           `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_rate_subject_kind_variant,priority:3"`
	FlatRate         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	HasDynamicRate   bool             `gorm:"not null;default:false"`
	MinOrderQuantity int64            `gorm:"not null;default:1"`
	TaxRatePercent   decimal.Decimal  `gorm:"type:decimal(8,4);not null;default:0"`

	Tiers []RateTierModel `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RateScheduleModel) TableName() string {
	return "rate_schedules"
}

// RateTierModel is one quantity band of a dynamic rate schedule.
type RateTierModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ScheduleID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity int64           `gorm:"not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (RateTierModel) TableName() string {
	return "rate_tiers"
}

// ToDomain converts the persistence model to a domain RateSchedule aggregate.
func (m *RateScheduleModel) ToDomain() *pricing.RateSchedule {
	tiers := make([]pricing.Tier, len(m.Tiers))
	for i, tier := range m.Tiers {
		tiers[i] = pricing.Tier{
			MinQuantity: tier.MinQuantity,
			Rate:        tier.Rate,
		}
	}

	schedule := &pricing.RateSchedule{
		SubjectID:        m.SubjectID,
		SubjectName:      m.SubjectName,
		Kind:             m.Kind,
		Variant:          m.Variant,
		FlatRate:         m.FlatRate,
		HasDynamicRate:   m.HasDynamicRate,
		Tiers:            tiers,
		MinOrderQuantity: m.MinOrderQuantity,
		TaxRatePercent:   m.TaxRatePercent,
	}
	m.PopulateAggregateRoot(&schedule.BaseAggregateRoot)
	return schedule
}

// FromDomain populates the persistence model from a domain RateSchedule aggregate.
func (m *RateScheduleModel) FromDomain(s *pricing.RateSchedule) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SubjectID = s.SubjectID
	m.SubjectName = s.SubjectName
	m.Kind = s.Kind
	m.Variant = s.Variant
	m.FlatRate = s.FlatRate
	m.HasDynamicRate = s.HasDynamicRate
	m.MinOrderQuantity = s.MinOrderQuantity
	m.TaxRatePercent = s.TaxRatePercent

	m.Tiers = make([]RateTierModel, len(s.Tiers))
	for i, tier := range s.Tiers {
		m.Tiers[i] = RateTierModel{
			ID:          uuid.New(),
			ScheduleID:  s.ID,
			MinQuantity: tier.MinQuantity,
			Rate:        tier.Rate,
		}
	}
}

// RateScheduleModelFromDomain creates a new persistence model from a domain RateSchedule.
func RateScheduleModelFromDomain(s *pricing.RateSchedule) *RateScheduleModel {
	m := &RateScheduleModel{}
	m.FromDomain(s)
	return m
}
