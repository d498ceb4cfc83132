package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/application/incentive"
	"github.com/salesops/backend/internal/domain/claim"
	"github.com/salesops/backend/internal/domain/ledger"
)

// GormSalesQueryRepository implements the incentive sales aggregation query
// using GORM. Only tax invoices whose claim record attributes the sale to the
// salesperson with an approved status count toward the totals.
type GormSalesQueryRepository struct {
	db *gorm.DB
}

// NewGormSalesQueryRepository creates a new GormSalesQueryRepository
func NewGormSalesQueryRepository(db *gorm.DB) *GormSalesQueryRepository {
	return &GormSalesQueryRepository{db: db}
}

// AggregateQuantitiesBySalesperson sums sold quantities per product across
// the salesperson's attributed tax invoices inside the window
func (r *GormSalesQueryRepository) AggregateQuantitiesBySalesperson(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) ([]incentive.ProductQuantity, error) {
	type aggregateRow struct {
		ProductID   uuid.UUID
		ProductName string
		Quantity    int64
	}

	var rows []aggregateRow

	query := r.db.WithContext(ctx).
		Table("voucher_line_items vli").
		Select(`
			vli.product_id as product_id,
			MAX(vli.product_name) as product_name,
			COALESCE(SUM(vli.quantity), 0) as quantity
		`).
		Joins("JOIN vouchers v ON v.id = vli.voucher_id").
		Joins("JOIN claim_records cr ON cr.voucher_id = v.id").
		Where("v.kind = ?", ledger.VoucherKindTaxInvoice).
		Where("v.issue_date BETWEEN ? AND ?", from, to).
		Where("cr.sold_by = ? AND cr.status = ?", salespersonID, claim.ClaimStatusApproved).
		Group("vli.product_id").
		Order("product_name ASC")

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	quantities := make([]incentive.ProductQuantity, len(rows))
	for i, row := range rows {
		quantities[i] = incentive.ProductQuantity{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
		}
	}
	return quantities, nil
}

// Ensure GormSalesQueryRepository implements SalesQueryRepository
var _ incentive.SalesQueryRepository = (*GormSalesQueryRepository)(nil)
