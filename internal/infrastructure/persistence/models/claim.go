package models

import (
	"github.com/google/uuid"

	"github.com/salesops/backend/internal/domain/claim"
)

// ClaimRecordModel is the persistence model for the ClaimRecord aggregate.
// SoldBy and ClaimRequestedBy are nullable columns; the domain represents
// their absence as uuid.Nil.
type ClaimRecordModel struct {
	AggregateModel
	VoucherID        uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	VoucherNumber    string            `gorm:"type:varchar(50);not null"`
	SoldBy           *uuid.UUID        `gorm:"type:uuid;index"`
	SoldByName       string            `gorm:"type:varchar(200)"`
	ClaimRequestedBy *uuid.UUID        `gorm:"type:uuid;index"`
	RequestedByName  string            `gorm:"type:varchar(200)"`
	Status           claim.ClaimStatus `gorm:"type:varchar(20);not null;default:'NONE';index"`
}

// TableName returns the table name for GORM
func (ClaimRecordModel) TableName() string {
	return "claim_records"
}

// ToDomain converts the persistence model to a domain ClaimRecord aggregate.
func (m *ClaimRecordModel) ToDomain() *claim.ClaimRecord {
	record := &claim.ClaimRecord{
		VoucherID:     m.VoucherID,
		VoucherNumber: m.VoucherNumber,
		SoldByName:    m.SoldByName,
		Status:        m.Status,
	}
	if m.SoldBy != nil {
		record.SoldBy = *m.SoldBy
	}
	if m.ClaimRequestedBy != nil {
		record.ClaimRequestedBy = *m.ClaimRequestedBy
		record.RequestedByName = m.RequestedByName
	}
	m.PopulateAggregateRoot(&record.BaseAggregateRoot)
	return record
}

// FromDomain populates the persistence model from a domain ClaimRecord aggregate.
func (m *ClaimRecordModel) FromDomain(r *claim.ClaimRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.VoucherID = r.VoucherID
	m.VoucherNumber = r.VoucherNumber
	m.SoldByName = r.SoldByName
	m.RequestedByName = r.RequestedByName
	m.Status = r.Status

	m.SoldBy = nil
	if r.SoldBy != uuid.Nil {
		soldBy := r.SoldBy
		m.SoldBy = &soldBy
	}
	m.ClaimRequestedBy = nil
	if r.ClaimRequestedBy != uuid.Nil {
		requestedBy := r.ClaimRequestedBy
		m.ClaimRequestedBy = &requestedBy
	}
}

// ClaimRecordModelFromDomain creates a new persistence model from a domain ClaimRecord.
func ClaimRecordModelFromDomain(r *claim.ClaimRecord) *ClaimRecordModel {
	m := &ClaimRecordModel{}
	m.FromDomain(r)
	return m
}
