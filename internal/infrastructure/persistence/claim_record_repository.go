package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/domain/claim"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
)

// GormClaimRecordRepository implements ClaimRecordRepository using GORM
type GormClaimRecordRepository struct {
	db *gorm.DB
}

// NewGormClaimRecordRepository creates a new GormClaimRecordRepository
func NewGormClaimRecordRepository(db *gorm.DB) *GormClaimRecordRepository {
	return &GormClaimRecordRepository{db: db}
}

// FindByID finds a claim record by ID
func (r *GormClaimRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*claim.ClaimRecord, error) {
	var model models.ClaimRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByVoucherID finds the claim record for a voucher
func (r *GormClaimRecordRepository) FindByVoucherID(ctx context.Context, voucherID uuid.UUID) (*claim.ClaimRecord, error) {
	var model models.ClaimRecordModel
	if err := r.db.WithContext(ctx).
		Where("voucher_id = ?", voucherID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns claim records matching the filter
func (r *GormClaimRecordRepository) FindAll(ctx context.Context, filter claim.ClaimRecordFilter) ([]claim.ClaimRecord, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClaimRecordModel{}), filter)

	var recordModels []models.ClaimRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]claim.ClaimRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindPending returns all records awaiting a decision
func (r *GormClaimRecordRepository) FindPending(ctx context.Context, filter claim.ClaimRecordFilter) ([]claim.ClaimRecord, error) {
	pending := claim.ClaimStatusPending
	filter.Status = &pending
	return r.FindAll(ctx, filter)
}

// Save creates or updates a claim record
func (r *GormClaimRecordRepository) Save(ctx context.Context, record *claim.ClaimRecord) error {
	model := models.ClaimRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyFilter applies filter options to the query
func (r *GormClaimRecordRepository) applyFilter(query *gorm.DB, filter claim.ClaimRecordFilter) *gorm.DB {
	if filter.SoldBy != nil {
		query = query.Where("sold_by = ?", *filter.SoldBy)
	}
	if filter.RequestedBy != nil {
		query = query.Where("claim_requested_by = ?", *filter.RequestedBy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	return query.Order("updated_at DESC")
}

// Ensure GormClaimRecordRepository implements ClaimRecordRepository
var _ claim.ClaimRecordRepository = (*GormClaimRecordRepository)(nil)
