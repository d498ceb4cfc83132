package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	claimapp "github.com/salesops/backend/internal/application/claims"
	"github.com/salesops/backend/internal/domain/claim"
)

// ClaimHandler handles sales credit claim endpoints
type ClaimHandler struct {
	BaseHandler
	claimService *claimapp.ClaimService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService *claimapp.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

// ActorRequest identifies who is acting. Identity is carried explicitly in
// the request; authentication happens upstream of this service.
type ActorRequest struct {
	ActorID   string `json:"actor_id" binding:"required,uuid"`
	ActorName string `json:"actor_name" binding:"required,min=1,max=200"`
	Admin     bool   `json:"admin"`
}

func (r ActorRequest) toActor() claimapp.Actor {
	return claimapp.Actor{
		ID:    uuid.MustParse(r.ActorID),
		Name:  r.ActorName,
		Admin: r.Admin,
	}
}

// DecideClaimRequest carries the decision on a pending claim
type DecideClaimRequest struct {
	ActorRequest
	Approve bool `json:"approve"`
}

// AdminAssignRequest forces ownership of a voucher to a salesperson
type AdminAssignRequest struct {
	ActorRequest
	SalespersonID   string `json:"salesperson_id" binding:"required,uuid"`
	SalespersonName string `json:"salesperson_name" binding:"required,min=1,max=200"`
}

// SelfClaim attributes an unowned voucher directly to the caller
func (h *ClaimHandler) SelfClaim(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.claimService.SelfClaim(c.Request.Context(), voucherID, req.toActor())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RequestClaim opens a pending claim on an unowned voucher
func (h *ClaimHandler) RequestClaim(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.claimService.RequestClaim(c.Request.Context(), voucherID, req.toActor())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Decide approves or rejects the pending claim on a voucher
func (h *ClaimHandler) Decide(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req DecideClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.claimService.Decide(c.Request.Context(), voucherID, req.toActor(), req.Approve)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// AdminAssign forces ownership regardless of current claim state
func (h *ClaimHandler) AdminAssign(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req AdminAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	salespersonID := uuid.MustParse(req.SalespersonID)
	record, err := h.claimService.AdminAssign(c.Request.Context(), voucherID, salespersonID, req.SalespersonName, req.toActor())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// AdminRelease clears ownership so a fresh claim cycle can start
func (h *ClaimHandler) AdminRelease(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	var req ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.claimService.AdminRelease(c.Request.Context(), voucherID, req.toActor())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByVoucher returns the claim record for a voucher
func (h *ClaimHandler) GetByVoucher(c *gin.Context) {
	voucherID, err := parseUUIDParam(c, "voucherId")
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	record, err := h.claimService.GetByVoucher(c.Request.Context(), voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListPending returns claims awaiting a decision
func (h *ClaimHandler) ListPending(c *gin.Context) {
	filter := claim.ClaimRecordFilter{}

	if soldBy := c.Query("sold_by"); soldBy != "" {
		id, err := uuid.Parse(soldBy)
		if err != nil {
			h.BadRequest(c, "Invalid sold_by format")
			return
		}
		filter.SoldBy = &id
	}

	records, err := h.claimService.ListPending(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// RegisterRoutes registers all claim routes
func (h *ClaimHandler) RegisterRoutes(rg *gin.RouterGroup) {
	claims := rg.Group("/claims")
	{
		claims.GET("/pending", h.ListPending)
		claims.GET("/vouchers/:voucherId", h.GetByVoucher)
		claims.POST("/vouchers/:voucherId/self-claim", h.SelfClaim)
		claims.POST("/vouchers/:voucherId/request", h.RequestClaim)
		claims.POST("/vouchers/:voucherId/decide", h.Decide)
		claims.POST("/vouchers/:voucherId/assign", h.AdminAssign)
		claims.POST("/vouchers/:voucherId/release", h.AdminRelease)
	}
}
