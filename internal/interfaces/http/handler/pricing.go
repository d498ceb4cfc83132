package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salesops/backend/internal/application/incentive"
	"github.com/salesops/backend/internal/application/proforma"
	"github.com/salesops/backend/internal/application/shipping"
	"github.com/salesops/backend/internal/domain/pricing"
)

// PricingHandler handles rate schedules and the computations built on them
type PricingHandler struct {
	BaseHandler
	scheduleRepo     pricing.RateScheduleRepository
	quoteService     *proforma.QuoteService
	courierService   *shipping.CourierService
	incentiveService *incentive.IncentiveService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(
	scheduleRepo pricing.RateScheduleRepository,
	quoteService *proforma.QuoteService,
	courierService *shipping.CourierService,
	incentiveService *incentive.IncentiveService,
) *PricingHandler {
	return &PricingHandler{
		scheduleRepo:     scheduleRepo,
		quoteService:     quoteService,
		courierService:   courierService,
		incentiveService: incentiveService,
	}
}

// TierRequest is one quantity band in a schedule upsert
type TierRequest struct {
	MinQuantity int64   `json:"min_quantity" binding:"min=0"`
	Rate        float64 `json:"rate" binding:"min=0"`
}

// UpsertScheduleRequest creates or replaces a rate schedule
type UpsertScheduleRequest struct {
	SubjectID        string        `json:"subject_id" binding:"required,uuid"`
	SubjectName      string        `json:"subject_name" binding:"required,min=1,max=200"`
	Kind             string        `json:"kind" binding:"required,oneof=INCENTIVE PRICE COURIER"`
	Variant          string        `json:"variant" binding:"max=50"`
	FlatRate         float64       `json:"flat_rate" binding:"min=0"`
	HasDynamicRate   bool          `json:"has_dynamic_rate"`
	Tiers            []TierRequest `json:"tiers" binding:"omitempty,dive"`
	MinOrderQuantity *int64        `json:"min_order_quantity" binding:"omitempty,min=1"`
	TaxRatePercent   *float64      `json:"tax_rate_percent" binding:"omitempty,min=0"`
}

// UpsertSchedule creates or replaces the schedule for a (subject, kind, variant)
func (h *PricingHandler) UpsertSchedule(c *gin.Context) {
	var req UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tiers := make([]pricing.Tier, len(req.Tiers))
	for i, tier := range req.Tiers {
		tiers[i] = pricing.Tier{
			MinQuantity: tier.MinQuantity,
			Rate:        decimal.NewFromFloat(tier.Rate),
		}
	}

	schedule, err := pricing.NewRateSchedule(
		uuid.MustParse(req.SubjectID),
		req.SubjectName,
		pricing.RateKind(req.Kind),
		req.Variant,
		decimal.NewFromFloat(req.FlatRate),
		req.HasDynamicRate,
		tiers,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if req.MinOrderQuantity != nil {
		if err := schedule.SetMinOrderQuantity(*req.MinOrderQuantity); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	if req.TaxRatePercent != nil {
		if err := schedule.SetTaxRatePercent(decimal.NewFromFloat(*req.TaxRatePercent)); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	// Replace an existing schedule for the same triple in place
	existing, err := h.scheduleRepo.FindBySubject(c.Request.Context(), schedule.Kind, schedule.SubjectID, schedule.Variant)
	if err == nil && existing != nil {
		schedule.BaseAggregateRoot = existing.BaseAggregateRoot
		schedule.IncrementVersion()
	}

	if err := h.scheduleRepo.Save(c.Request.Context(), schedule); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, schedule)
}

// ListSchedules lists schedules of one kind
func (h *PricingHandler) ListSchedules(c *gin.Context) {
	kind := pricing.RateKind(c.Query("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Invalid rate kind")
		return
	}

	schedules, err := h.scheduleRepo.FindByKind(c.Request.Context(), kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedules)
}

// GetSchedule returns one schedule by ID
func (h *PricingHandler) GetSchedule(c *gin.Context) {
	scheduleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	schedule, err := h.scheduleRepo.FindByID(c.Request.Context(), scheduleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, schedule)
}

// DeleteSchedule removes a schedule
func (h *PricingHandler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid schedule ID format")
		return
	}

	if err := h.scheduleRepo.Delete(c.Request.Context(), scheduleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// QuoteItemDTO is one requested quote line
type QuoteItemDTO struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// QuoteRequestDTO prices a proforma invoice
type QuoteRequestDTO struct {
	CustomerID string         `json:"customer_id" binding:"required,uuid"`
	Items      []QuoteItemDTO `json:"items" binding:"required,min=1,dive"`
}

// Quote prices a proforma invoice for a customer
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := proforma.QuoteRequest{CustomerID: uuid.MustParse(req.CustomerID)}
	for _, item := range req.Items {
		appReq.Items = append(appReq.Items, proforma.QuoteItemRequest{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  item.Quantity,
		})
	}

	quote, err := h.quoteService.PriceQuote(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// EstimateRequestDTO estimates courier charges for a consignment
type EstimateRequestDTO struct {
	Mode  string         `json:"mode" binding:"required,oneof=surface air"`
	Items []QuoteItemDTO `json:"items" binding:"required,min=1,dive"`
}

// EstimateCourier estimates courier charges per product slab
func (h *PricingHandler) EstimateCourier(c *gin.Context) {
	var req EstimateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := shipping.EstimateRequest{Mode: shipping.CourierMode(req.Mode)}
	for _, item := range req.Items {
		appReq.Items = append(appReq.Items, shipping.EstimateItem{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  item.Quantity,
		})
	}

	estimate, err := h.courierService.EstimateCharges(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, estimate)
}

// IncentiveReport computes a salesperson's incentive report for a window
func (h *PricingHandler) IncentiveReport(c *gin.Context) {
	salespersonID, err := parseUUIDParam(c, "salespersonId")
	if err != nil {
		h.BadRequest(c, "Invalid salesperson ID format")
		return
	}

	role := incentive.SalespersonRole(c.Query("role"))
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		h.BadRequest(c, "Invalid from timestamp, expected RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		h.BadRequest(c, "Invalid to timestamp, expected RFC3339")
		return
	}

	report, err := h.incentiveService.ComputeReport(c.Request.Context(), incentive.ReportRequest{
		SalespersonID: salespersonID,
		Role:          role,
		From:          from,
		To:            to,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RegisterRoutes registers all pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rates := rg.Group("/rates")
	{
		rates.GET("/schedules", h.ListSchedules)
		rates.POST("/schedules", h.UpsertSchedule)
		rates.GET("/schedules/:id", h.GetSchedule)
		rates.DELETE("/schedules/:id", h.DeleteSchedule)
	}

	rg.POST("/quotes", h.Quote)
	rg.POST("/shipping/estimates", h.EstimateCourier)
	rg.GET("/incentives/:salespersonId/report", h.IncentiveReport)
}
