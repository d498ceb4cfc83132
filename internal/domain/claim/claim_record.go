package claim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
)

// ClaimStatus represents the status of a sales credit claim
type ClaimStatus string

const (
	ClaimStatusNone     ClaimStatus = "NONE"     // No claim activity on the voucher
	ClaimStatusPending  ClaimStatus = "PENDING"  // A salesperson requested credit, awaiting decision
	ClaimStatusApproved ClaimStatus = "APPROVED" // Credit attributed to a salesperson
	ClaimStatusRejected ClaimStatus = "REJECTED" // Request denied by the owner or an admin
)

// IsValid checks if the status is a valid ClaimStatus
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusNone, ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ClaimStatus
func (s ClaimStatus) String() string {
	return string(s)
}

// IsDecided returns true once a request cycle has been concluded
func (s ClaimStatus) IsDecided() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// ClaimRecord attributes sales credit for one voucher to a salesperson.
//
// SoldBy is the current owner (uuid.Nil when unowned). ClaimRequestedBy is set
// only while a request is pending; every decision clears it. APPROVED and
// REJECTED are terminal for a request cycle and can only be reopened through
// an administrative override.
type ClaimRecord struct {
	shared.BaseAggregateRoot
	VoucherID        uuid.UUID   `json:"voucher_id"`
	VoucherNumber    string      `json:"voucher_number"`
	SoldBy           uuid.UUID   `json:"sold_by"`
	SoldByName       string      `json:"sold_by_name"`
	ClaimRequestedBy uuid.UUID   `json:"claim_requested_by"`
	RequestedByName  string      `json:"requested_by_name"`
	Status           ClaimStatus `json:"status"`
}

// NewClaimRecord creates an unowned claim record for a voucher
func NewClaimRecord(voucherID uuid.UUID, voucherNumber string) (*ClaimRecord, error) {
	if voucherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VOUCHER", "Voucher ID cannot be empty")
	}
	return &ClaimRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VoucherID:         voucherID,
		VoucherNumber:     voucherNumber,
		Status:            ClaimStatusNone,
	}, nil
}

// IsOwned returns true if the voucher has an attributed salesperson
func (c *ClaimRecord) IsOwned() bool {
	return c.SoldBy != uuid.Nil
}

// SelfClaim attributes the voucher directly to the acting salesperson.
// Allowed only from NONE, and only when nobody else already owns it.
func (c *ClaimRecord) SelfClaim(actorID uuid.UUID, actorName string) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Salesperson ID cannot be empty")
	}
	if c.Status != ClaimStatusNone {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Voucher %s cannot be self-claimed from status %s", c.VoucherNumber, c.Status))
	}
	if c.IsOwned() && c.SoldBy != actorID {
		return shared.ErrUnauthorized
	}

	c.SoldBy = actorID
	c.SoldByName = actorName
	c.clearRequest()
	c.Status = ClaimStatusApproved
	c.touch()
	c.AddDomainEvent(NewClaimApprovedEvent(c.GetID(), c.VoucherID, actorID, actorID))
	return nil
}

// RequestClaim opens a pending request for credit by a non-owning salesperson
func (c *ClaimRecord) RequestClaim(actorID uuid.UUID, actorName string) error {
	if actorID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Salesperson ID cannot be empty")
	}
	if c.Status != ClaimStatusNone {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Voucher %s cannot be requested from status %s", c.VoucherNumber, c.Status))
	}
	if c.SoldBy == actorID {
		return shared.NewDomainError("ALREADY_OWNER",
			fmt.Sprintf("Salesperson already owns voucher %s", c.VoucherNumber))
	}

	c.ClaimRequestedBy = actorID
	c.RequestedByName = actorName
	c.Status = ClaimStatusPending
	c.touch()
	c.AddDomainEvent(NewClaimRequestedEvent(c.GetID(), c.VoucherID, actorID))
	return nil
}

// Approve grants a pending request, transferring ownership to the requester.
// Only the current owner or an admin may decide.
func (c *ClaimRecord) Approve(decidedBy uuid.UUID, asAdmin bool) error {
	if err := c.authorizeDecision(decidedBy, asAdmin); err != nil {
		return err
	}

	c.SoldBy = c.ClaimRequestedBy
	c.SoldByName = c.RequestedByName
	newOwner := c.ClaimRequestedBy
	c.clearRequest()
	c.Status = ClaimStatusApproved
	c.touch()
	c.AddDomainEvent(NewClaimApprovedEvent(c.GetID(), c.VoucherID, newOwner, decidedBy))
	return nil
}

// Reject denies a pending request. Only the current owner or an admin may decide.
func (c *ClaimRecord) Reject(decidedBy uuid.UUID, asAdmin bool) error {
	if err := c.authorizeDecision(decidedBy, asAdmin); err != nil {
		return err
	}

	rejected := c.ClaimRequestedBy
	c.clearRequest()
	c.Status = ClaimStatusRejected
	c.touch()
	c.AddDomainEvent(NewClaimRejectedEvent(c.GetID(), c.VoucherID, rejected, decidedBy))
	return nil
}

// AdminAssign forces ownership to the given salesperson from any state
func (c *ClaimRecord) AdminAssign(salespersonID uuid.UUID, salespersonName string, adminID uuid.UUID) error {
	if salespersonID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Salesperson ID cannot be empty")
	}

	c.SoldBy = salespersonID
	c.SoldByName = salespersonName
	c.clearRequest()
	c.Status = ClaimStatusApproved
	c.touch()
	c.AddDomainEvent(NewClaimApprovedEvent(c.GetID(), c.VoucherID, salespersonID, adminID))
	return nil
}

// AdminRelease strips ownership and returns the record to the unowned state
func (c *ClaimRecord) AdminRelease(adminID uuid.UUID) error {
	c.SoldBy = uuid.Nil
	c.SoldByName = ""
	c.clearRequest()
	c.Status = ClaimStatusNone
	c.touch()
	c.AddDomainEvent(NewClaimReleasedEvent(c.GetID(), c.VoucherID, adminID))
	return nil
}

func (c *ClaimRecord) authorizeDecision(decidedBy uuid.UUID, asAdmin bool) error {
	if c.Status != ClaimStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("No pending request on voucher %s to decide", c.VoucherNumber))
	}
	if asAdmin {
		return nil
	}
	if decidedBy == uuid.Nil || !c.IsOwned() || c.SoldBy != decidedBy {
		return shared.ErrUnauthorized
	}
	return nil
}

func (c *ClaimRecord) clearRequest() {
	c.ClaimRequestedBy = uuid.Nil
	c.RequestedByName = ""
}

func (c *ClaimRecord) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
