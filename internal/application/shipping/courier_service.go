package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/pricing"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CourierMode is the transport mode a slab schedule is priced for
type CourierMode string

const (
	CourierModeSurface CourierMode = "surface"
	CourierModeAir     CourierMode = "air"
)

// IsValid checks if the courier mode is valid
func (m CourierMode) IsValid() bool {
	return m == CourierModeSurface || m == CourierModeAir
}

// String returns the string representation of the mode
func (m CourierMode) String() string {
	return string(m)
}

// CourierService estimates courier charges from per-product slab schedules
type CourierService struct {
	scheduleRepo pricing.RateScheduleRepository
	logger       *zap.Logger
}

// NewCourierService creates a new CourierService
func NewCourierService(scheduleRepo pricing.RateScheduleRepository, logger *zap.Logger) *CourierService {
	return &CourierService{scheduleRepo: scheduleRepo, logger: logger}
}

// EstimateItem is one shipped product line
type EstimateItem struct {
	ProductID uuid.UUID
	Quantity  int64
}

// EstimateRequest describes one charge estimation for a single consignment
type EstimateRequest struct {
	Mode  CourierMode
	Items []EstimateItem
}

// ChargeLine is the courier charge for one product. Charged is false when
// the product's cumulative quantity sits below every slab or no slab
// schedule exists for the product and mode; such lines cost nothing.
type ChargeLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Charged   bool            `json:"charged"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
}

// Estimate is the priced consignment
type Estimate struct {
	Mode  CourierMode     `json:"mode"`
	Lines []ChargeLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// EstimateCharges sums quantities per product across the consignment, then
// resolves each product's slab once on the cumulative figure. Slabs use the
// no-match policy: below the lowest slab the line is carried uncharged
// rather than priced at zero rate, so callers can tell "free" from "too
// small to charge".
func (s *CourierService) EstimateCharges(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	if !req.Mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", fmt.Sprintf("Courier mode %q is not valid", req.Mode))
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Estimate must contain at least one item")
	}

	// Cumulative per product; one consignment may repeat a product line.
	order := make([]uuid.UUID, 0, len(req.Items))
	quantities := make(map[uuid.UUID]int64, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for product %s must be positive", item.ProductID))
		}
		if _, seen := quantities[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	estimate := &Estimate{
		Mode:  req.Mode,
		Lines: make([]ChargeLine, 0, len(order)),
		Total: decimal.Zero,
	}

	for _, productID := range order {
		quantity := quantities[productID]
		line := ChargeLine{
			ProductID: productID,
			Quantity:  quantity,
			Rate:      decimal.Zero,
			Amount:    decimal.Zero,
		}

		schedule, err := s.scheduleRepo.FindBySubject(ctx, pricing.RateKindCourier, productID, req.Mode.String())
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				estimate.Lines = append(estimate.Lines, line)
				continue
			}
			return nil, fmt.Errorf("failed to load courier slab for product %s: %w", productID, err)
		}

		resolution, err := schedule.Resolve(quantity, pricing.BelowThresholdNone)
		if err != nil {
			return nil, fmt.Errorf("courier resolution failed for product %s: %w", productID, err)
		}
		if resolution.Applied {
			line.Charged = true
			line.Rate = resolution.Rate
			line.Amount = resolution.Rate.Mul(decimal.NewFromInt(quantity))
			estimate.Total = estimate.Total.Add(line.Amount)
		}

		estimate.Lines = append(estimate.Lines, line)
	}

	s.logger.Debug("Courier charges estimated",
		zap.String("mode", req.Mode.String()),
		zap.Int("lines", len(estimate.Lines)),
		zap.String("total", estimate.Total.String()))
	return estimate, nil
}
