package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salesops/backend/internal/application/reconciliation"
	"github.com/salesops/backend/internal/domain/ledger"
)

// ReconciliationHandler handles reconciliation runs and status reads
type ReconciliationHandler struct {
	BaseHandler
	runService  *reconciliation.RunService
	profileRepo ledger.CreditProfileRepository
	statusRepo  ledger.VoucherStatusRepository
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(
	runService *reconciliation.RunService,
	profileRepo ledger.CreditProfileRepository,
	statusRepo ledger.VoucherStatusRepository,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		runService:  runService,
		profileRepo: profileRepo,
		statusRepo:  statusRepo,
	}
}

// RunRequest triggers a reconciliation run
type RunRequest struct {
	// AsOf is the evaluation date for credit period aging, defaults to now
	AsOf *time.Time `json:"as_of"`
	// CustomerIDs restricts the run; empty means every tracked customer
	CustomerIDs []string `json:"customer_ids" binding:"omitempty,dive,uuid"`
	Workers     int      `json:"workers" binding:"omitempty,min=1,max=64"`
}

// Run executes a reconciliation run across customers
func (h *ReconciliationHandler) Run(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	opts := reconciliation.RunOptions{Workers: req.Workers}
	if req.AsOf != nil {
		opts.AsOf = *req.AsOf
	}
	for _, raw := range req.CustomerIDs {
		opts.CustomerIDs = append(opts.CustomerIDs, uuid.MustParse(raw))
	}

	summary, err := h.runService.Run(c.Request.Context(), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RunCustomer reconciles a single customer
func (h *ReconciliationHandler) RunCustomer(c *gin.Context) {
	customerID, err := parseUUIDParam(c, "customerId")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}
	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	outcome, err := h.runService.ReconcileCustomer(c.Request.Context(), customerID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if outcome == nil {
		h.NotFound(c, "No credit profile for customer")
		return
	}

	h.Success(c, outcome)
}

// GetProfile returns the credit profile of a customer
func (h *ReconciliationHandler) GetProfile(c *gin.Context) {
	customerID, err := parseUUIDParam(c, "customerId")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	profile, err := h.profileRepo.FindByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ListProfilesWithDebt returns customers currently owing money
func (h *ReconciliationHandler) ListProfilesWithDebt(c *gin.Context) {
	profiles, err := h.profileRepo.FindWithDebt(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profiles)
}

// statusFilterFromQuery builds a status filter from query parameters
func (h *ReconciliationHandler) statusFilterFromQuery(c *gin.Context) (ledger.VoucherStatusFilter, bool) {
	filter := ledger.VoucherStatusFilter{}

	if raw := c.Query("state"); raw != "" {
		state := ledger.PaymentState(raw)
		if !state.IsValid() {
			h.BadRequest(c, "Invalid payment state")
			return filter, false
		}
		filter.State = &state
	}
	if raw := c.Query("credit_period_crossed"); raw != "" {
		crossed := raw == "true"
		filter.CreditPeriodCrossed = &crossed
	}

	return filter, true
}

// GetCustomerStatuses returns the reconciled statuses for a customer
func (h *ReconciliationHandler) GetCustomerStatuses(c *gin.Context) {
	customerID, err := parseUUIDParam(c, "customerId")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	filter, ok := h.statusFilterFromQuery(c)
	if !ok {
		return
	}

	statuses, err := h.statusRepo.FindByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statuses)
}

// GetVoucherStatus returns the reconciled status of one voucher
func (h *ReconciliationHandler) GetVoucherStatus(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	status, err := h.statusRepo.FindByVoucher(c.Request.Context(), voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ListOverdue returns statuses past their credit period
func (h *ReconciliationHandler) ListOverdue(c *gin.Context) {
	filter, ok := h.statusFilterFromQuery(c)
	if !ok {
		return
	}

	statuses, err := h.statusRepo.FindOverdue(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statuses)
}

// RegisterRoutes registers all reconciliation routes
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recon := rg.Group("/reconciliation")
	{
		recon.POST("/runs", h.Run)
		recon.POST("/customers/:customerId/runs", h.RunCustomer)
	}

	ledgerGroup := rg.Group("/ledger")
	{
		ledgerGroup.GET("/customers/:customerId/profile", h.GetProfile)
		ledgerGroup.GET("/profiles/with-debt", h.ListProfilesWithDebt)
		ledgerGroup.GET("/customers/:customerId/statuses", h.GetCustomerStatuses)
		ledgerGroup.GET("/vouchers/:voucherId/status", h.GetVoucherStatus)
		ledgerGroup.GET("/statuses/overdue", h.ListOverdue)
	}
}
