package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
)

// GormCreditProfileRepository implements CreditProfileRepository using GORM
type GormCreditProfileRepository struct {
	db *gorm.DB
}

// NewGormCreditProfileRepository creates a new GormCreditProfileRepository
func NewGormCreditProfileRepository(db *gorm.DB) *GormCreditProfileRepository {
	return &GormCreditProfileRepository{db: db}
}

// FindByCustomerID finds the credit profile for a customer
func (r *GormCreditProfileRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*ledger.CreditProfile, error) {
	var model models.CreditProfileModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every credit profile ordered by customer name
func (r *GormCreditProfileRepository) FindAll(ctx context.Context) ([]ledger.CreditProfile, error) {
	var profileModels []models.CreditProfileModel
	if err := r.db.WithContext(ctx).
		Order("customer_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}

	profiles := make([]ledger.CreditProfile, len(profileModels))
	for i, model := range profileModels {
		profiles[i] = *model.ToDomain()
	}
	return profiles, nil
}

// FindWithDebt returns profiles whose outstanding balance is positive
func (r *GormCreditProfileRepository) FindWithDebt(ctx context.Context) ([]ledger.CreditProfile, error) {
	var profileModels []models.CreditProfileModel
	if err := r.db.WithContext(ctx).
		Where("outstanding_balance > 0").
		Order("outstanding_balance DESC").
		Find(&profileModels).Error; err != nil {
		return nil, err
	}

	profiles := make([]ledger.CreditProfile, len(profileModels))
	for i, model := range profileModels {
		profiles[i] = *model.ToDomain()
	}
	return profiles, nil
}

// Save creates or updates a credit profile
func (r *GormCreditProfileRepository) Save(ctx context.Context, profile *ledger.CreditProfile) error {
	model := models.CreditProfileModelFromDomain(profile)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a credit profile
func (r *GormCreditProfileRepository) Delete(ctx context.Context, customerID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CreditProfileModel{}, "customer_id = ?", customerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCreditProfileRepository implements CreditProfileRepository
var _ ledger.CreditProfileRepository = (*GormCreditProfileRepository)(nil)
