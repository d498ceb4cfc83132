package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/persistence/models"
)

// GormVoucherStatusRepository implements VoucherStatusRepository and
// ReconciliationWriter using GORM.
type GormVoucherStatusRepository struct {
	db *gorm.DB
}

// NewGormVoucherStatusRepository creates a new GormVoucherStatusRepository
func NewGormVoucherStatusRepository(db *gorm.DB) *GormVoucherStatusRepository {
	return &GormVoucherStatusRepository{db: db}
}

// FindByCustomer returns the current statuses for a customer
func (r *GormVoucherStatusRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter ledger.VoucherStatusFilter) ([]ledger.VoucherStatus, error) {
	query := r.db.WithContext(ctx).
		Model(&models.VoucherStatusModel{}).
		Where("customer_id = ?", customerID)
	query = r.applyFilter(query, filter)

	var statusModels []models.VoucherStatusModel
	if err := query.Find(&statusModels).Error; err != nil {
		return nil, err
	}
	return toDomainStatuses(statusModels), nil
}

// FindByVoucher returns the current status for one voucher
func (r *GormVoucherStatusRepository) FindByVoucher(ctx context.Context, voucherID uuid.UUID) (*ledger.VoucherStatus, error) {
	var model models.VoucherStatusModel
	if err := r.db.WithContext(ctx).First(&model, "voucher_id = ?", voucherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	status := model.ToDomain()
	return &status, nil
}

// FindOverdue returns statuses whose credit period has been crossed
func (r *GormVoucherStatusRepository) FindOverdue(ctx context.Context, filter ledger.VoucherStatusFilter) ([]ledger.VoucherStatus, error) {
	query := r.db.WithContext(ctx).
		Model(&models.VoucherStatusModel{}).
		Where("credit_period_crossed = ?", true)
	// Crossed implies unpaid or partially paid, the state filter still applies
	query = r.applyFilter(query, filter)

	var statusModels []models.VoucherStatusModel
	if err := query.Find(&statusModels).Error; err != nil {
		return nil, err
	}
	return toDomainStatuses(statusModels), nil
}

// ReplaceForCustomer atomically swaps all statuses for the customer.
// Delete and insert run in one transaction so readers never observe a
// partially written run.
func (r *GormVoucherStatusRepository) ReplaceForCustomer(ctx context.Context, customerID uuid.UUID, statuses []ledger.VoucherStatus) error {
	computedAt := time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.VoucherStatusModel{}, "customer_id = ?", customerID).Error; err != nil {
			return err
		}
		if len(statuses) == 0 {
			return nil
		}

		statusModels := make([]*models.VoucherStatusModel, len(statuses))
		for i, status := range statuses {
			statusModels[i] = models.VoucherStatusModelFromDomain(status, computedAt)
		}
		return tx.CreateInBatches(statusModels, 200).Error
	})
}

// applyFilter applies filter options to the query
func (r *GormVoucherStatusRepository) applyFilter(query *gorm.DB, filter ledger.VoucherStatusFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.State != nil {
		query = r.applyStateFilter(query, *filter.State)
	}
	if filter.CreditPeriodCrossed != nil {
		query = query.Where("credit_period_crossed = ?", *filter.CreditPeriodCrossed)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	return query.Order("issue_date DESC, voucher_id ASC")
}

// applyStateFilter maps a payment state onto the stored boolean triple
func (r *GormVoucherStatusRepository) applyStateFilter(query *gorm.DB, state ledger.PaymentState) *gorm.DB {
	switch state {
	case ledger.PaymentStateUnpaid:
		return query.Where("is_unpaid = ?", true)
	case ledger.PaymentStatePartiallyPaid:
		return query.Where("is_partially_paid = ?", true)
	case ledger.PaymentStateFullyPaid:
		return query.Where("is_fully_paid = ?", true)
	case ledger.PaymentStateNotApplicable:
		return query.Where("is_unpaid IS NULL")
	}
	return query
}

func toDomainStatuses(statusModels []models.VoucherStatusModel) []ledger.VoucherStatus {
	statuses := make([]ledger.VoucherStatus, len(statusModels))
	for i, model := range statusModels {
		statuses[i] = model.ToDomain()
	}
	return statuses
}

// Ensure GormVoucherStatusRepository implements both ledger ports
var (
	_ ledger.VoucherStatusRepository = (*GormVoucherStatusRepository)(nil)
	_ ledger.ReconciliationWriter    = (*GormVoucherStatusRepository)(nil)
)
