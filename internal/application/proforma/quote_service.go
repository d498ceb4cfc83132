package proforma

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

var oneHundred = decimal.NewFromInt(100)

// QuoteService prices proforma invoices from the product rate sheet
type QuoteService struct {
	scheduleRepo pricing.RateScheduleRepository
	logger       *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(scheduleRepo pricing.RateScheduleRepository, logger *zap.Logger) *QuoteService {
	return &QuoteService{scheduleRepo: scheduleRepo, logger: logger}
}

// QuoteItemRequest is one requested product line
type QuoteItemRequest struct {
	ProductID uuid.UUID
	Quantity  int64
}

// QuoteRequest describes a proforma quotation
type QuoteRequest struct {
	CustomerID uuid.UUID
	Items      []QuoteItemRequest
}

// QuoteLine is one priced product line. Prices are tax-exclusive; the tax
// amount is carried separately per line.
type QuoteLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
}

// Quote is a priced proforma invoice
type Quote struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	Lines      []QuoteLine     `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxTotal   decimal.Decimal `json:"tax_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// PriceQuote prices every requested line against the product's PRICE
// schedule. Quantities below the product's minimum order quantity reject the
// quote; a dynamic price resolved below every tier prices the line at zero.
func (s *QuoteService) PriceQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Customer ID cannot be empty")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quote must contain at least one item")
	}

	quote := &Quote{
		CustomerID: req.CustomerID,
		Lines:      make([]QuoteLine, 0, len(req.Items)),
		Subtotal:   decimal.Zero,
		TaxTotal:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Quantity for product %s must be positive", item.ProductID))
		}

		schedule, err := s.scheduleRepo.FindBySubject(ctx, pricing.RateKindPrice, item.ProductID, "")
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PRICE_NOT_FOUND",
					fmt.Sprintf("No price sheet entry for product %s", item.ProductID))
			}
			return nil, fmt.Errorf("failed to load price for product %s: %w", item.ProductID, err)
		}

		if item.Quantity < schedule.MinOrderQuantity {
			return nil, shared.NewDomainError("BELOW_MIN_ORDER",
				fmt.Sprintf("Product %s requires a minimum order of %d, got %d",
					item.ProductID, schedule.MinOrderQuantity, item.Quantity))
		}

		resolution, err := schedule.Resolve(item.Quantity, pricing.BelowThresholdZero)
		if err != nil {
			return nil, fmt.Errorf("price resolution failed for product %s: %w", item.ProductID, err)
		}

		line := QuoteLine{
			ProductID:   item.ProductID,
			ProductName: schedule.SubjectName,
			Quantity:    item.Quantity,
			UnitPrice:   resolution.Rate,
			TaxRate:     schedule.TaxRatePercent,
		}
		line.Subtotal = resolution.Rate.Mul(decimal.NewFromInt(item.Quantity))
		line.TaxAmount = line.Subtotal.Mul(schedule.TaxRatePercent).Div(oneHundred).Round(2)
		line.Total = line.Subtotal.Add(line.TaxAmount)

		quote.Lines = append(quote.Lines, line)
		quote.Subtotal = quote.Subtotal.Add(line.Subtotal)
		quote.TaxTotal = quote.TaxTotal.Add(line.TaxAmount)
	}

	quote.GrandTotal = quote.Subtotal.Add(quote.TaxTotal)
	s.logger.Debug("Proforma quote priced",
		zap.String("customer_id", req.CustomerID.String()),
		zap.Int("lines", len(quote.Lines)),
		zap.String("grand_total", quote.GrandTotal.String()))
	return quote, nil
}
