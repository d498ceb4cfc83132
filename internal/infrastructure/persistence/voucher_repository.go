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

// GormVoucherRepository implements VoucherRepository using GORM.
// Vouchers are written by the ledger import; this repository only reads.
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	voucher := model.ToDomain()
	return &voucher, nil
}

// FindByCustomer returns all vouchers for a customer, newest first
func (r *GormVoucherRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.Voucher, error) {
	var voucherModels []models.VoucherModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("issue_date DESC, sequence DESC").
		Find(&voucherModels).Error; err != nil {
		return nil, err
	}

	vouchers := make([]ledger.Voucher, len(voucherModels))
	for i, model := range voucherModels {
		vouchers[i] = model.ToDomain()
	}
	return vouchers, nil
}

// FindLineItems returns the line items of a voucher
func (r *GormVoucherRepository) FindLineItems(ctx context.Context, voucherID uuid.UUID) ([]ledger.VoucherLineItem, error) {
	var itemModels []models.VoucherLineItemModel
	if err := r.db.WithContext(ctx).
		Where("voucher_id = ?", voucherID).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]ledger.VoucherLineItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = model.ToDomain()
	}
	return items, nil
}

// Ensure GormVoucherRepository implements VoucherRepository
var _ ledger.VoucherRepository = (*GormVoucherRepository)(nil)
