package incentive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/pricing"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalespersonRole selects which incentive schedule variant applies
type SalespersonRole string

const (
	RoleAreaSalesManager     SalespersonRole = "ASM"
	RoleRegionalSalesManager SalespersonRole = "RSM"
)

// IsValid checks if the role is valid
func (r SalespersonRole) IsValid() bool {
	return r == RoleAreaSalesManager || r == RoleRegionalSalesManager
}

// String returns the string representation of the role
func (r SalespersonRole) String() string {
	return string(r)
}

// ProductQuantity is a per-product cumulative quantity within a window
type ProductQuantity struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
}

// SalesQueryRepository aggregates sold quantities from voucher line items.
// Quantities are summed per product across all tax invoices attributed to
// the salesperson inside the window, so rate resolution happens once per
// product on the cumulative figure, never per line.
type SalesQueryRepository interface {
	AggregateQuantitiesBySalesperson(ctx context.Context, salespersonID uuid.UUID, from, to time.Time) ([]ProductQuantity, error)
}

// IncentiveService computes per-salesperson incentive reports
type IncentiveService struct {
	salesQuery   SalesQueryRepository
	scheduleRepo pricing.RateScheduleRepository
	logger       *zap.Logger
}

// NewIncentiveService creates a new IncentiveService
func NewIncentiveService(salesQuery SalesQueryRepository, scheduleRepo pricing.RateScheduleRepository, logger *zap.Logger) *IncentiveService {
	return &IncentiveService{
		salesQuery:   salesQuery,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// ReportRequest describes one incentive report computation
type ReportRequest struct {
	SalespersonID uuid.UUID
	Role          SalespersonRole
	From          time.Time
	To            time.Time
}

// ReportLine is the incentive earned on one product
type ReportLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	HasSchedule bool            `json:"has_schedule"` // an incentive schedule exists for the product
	Rate        decimal.Decimal `json:"rate"`         // resolved per-unit rate, zero below every tier
	Amount      decimal.Decimal `json:"amount"`       // Rate * Quantity
}

// Report is a salesperson's incentive summary for a window
type Report struct {
	SalespersonID   uuid.UUID       `json:"salesperson_id"`
	Role            SalespersonRole `json:"role"`
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Lines           []ReportLine    `json:"lines"`
	CoveredProducts int             `json:"covered_products"` // products with a schedule
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// ComputeReport aggregates the salesperson's sold quantities and resolves
// the incentive rate per product. A product whose quantity sits below every
// tier still earns: it resolves to a zero rate rather than dropping out, and
// still counts as covered when a schedule exists.
func (s *IncentiveService) ComputeReport(ctx context.Context, req ReportRequest) (*Report, error) {
	if req.SalespersonID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Salesperson ID cannot be empty")
	}
	if !req.Role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Salesperson role %q is not valid", req.Role))
	}
	if req.From.After(req.To) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Report window start must not be after its end")
	}

	quantities, err := s.salesQuery.AggregateQuantitiesBySalesperson(ctx, req.SalespersonID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sold quantities: %w", err)
	}

	productIDs := make([]uuid.UUID, len(quantities))
	for i, q := range quantities {
		productIDs[i] = q.ProductID
	}
	schedules, err := s.scheduleRepo.FindBySubjects(ctx, pricing.RateKindIncentive, productIDs, req.Role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load incentive schedules: %w", err)
	}
	bySubject := make(map[uuid.UUID]*pricing.RateSchedule, len(schedules))
	for i := range schedules {
		bySubject[schedules[i].SubjectID] = &schedules[i]
	}

	report := &Report{
		SalespersonID: req.SalespersonID,
		Role:          req.Role,
		From:          req.From,
		To:            req.To,
		Lines:         make([]ReportLine, 0, len(quantities)),
		TotalAmount:   decimal.Zero,
	}

	for _, q := range quantities {
		line := ReportLine{
			ProductID:   q.ProductID,
			ProductName: q.ProductName,
			Quantity:    q.Quantity,
			Rate:        decimal.Zero,
			Amount:      decimal.Zero,
		}

		if schedule, ok := bySubject[q.ProductID]; ok {
			line.HasSchedule = true
			report.CoveredProducts++

			resolution, err := schedule.Resolve(q.Quantity, pricing.BelowThresholdZero)
			if err != nil {
				return nil, fmt.Errorf("incentive resolution failed for product %s: %w", q.ProductID, err)
			}
			line.Rate = resolution.Rate
			line.Amount = resolution.Rate.Mul(decimal.NewFromInt(q.Quantity))
			report.TotalAmount = report.TotalAmount.Add(line.Amount)
		}

		report.Lines = append(report.Lines, line)
	}

	s.logger.Debug("Incentive report computed",
		zap.String("salesperson_id", req.SalespersonID.String()),
		zap.String("role", req.Role.String()),
		zap.Int("products", len(report.Lines)),
		zap.String("total", report.TotalAmount.String()))
	return report, nil
}
