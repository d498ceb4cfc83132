package claim

import (
	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/shared"
)

// Aggregate type constant for ClaimRecord
const AggregateTypeClaimRecord = "ClaimRecord"

// Event type constants for ClaimRecord
const (
	EventTypeClaimRequested = "ClaimRequested"
	EventTypeClaimApproved  = "ClaimApproved"
	EventTypeClaimRejected  = "ClaimRejected"
	EventTypeClaimReleased  = "ClaimReleased"
)

// ClaimRequestedEvent is raised when a salesperson requests credit for a voucher
type ClaimRequestedEvent struct {
	shared.BaseDomainEvent
	VoucherID   uuid.UUID `json:"voucher_id"`
	RequestedBy uuid.UUID `json:"requested_by"`
}

// NewClaimRequestedEvent creates a new ClaimRequestedEvent
func NewClaimRequestedEvent(recordID, voucherID, requestedBy uuid.UUID) *ClaimRequestedEvent {
	return &ClaimRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimRequested, AggregateTypeClaimRecord, recordID),
		VoucherID:       voucherID,
		RequestedBy:     requestedBy,
	}
}

// ClaimApprovedEvent is raised when credit for a voucher is attributed
type ClaimApprovedEvent struct {
	shared.BaseDomainEvent
	VoucherID uuid.UUID `json:"voucher_id"`
	SoldBy    uuid.UUID `json:"sold_by"`
	DecidedBy uuid.UUID `json:"decided_by"`
}

// NewClaimApprovedEvent creates a new ClaimApprovedEvent
func NewClaimApprovedEvent(recordID, voucherID, soldBy, decidedBy uuid.UUID) *ClaimApprovedEvent {
	return &ClaimApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimApproved, AggregateTypeClaimRecord, recordID),
		VoucherID:       voucherID,
		SoldBy:          soldBy,
		DecidedBy:       decidedBy,
	}
}

// ClaimRejectedEvent is raised when a pending request is denied
type ClaimRejectedEvent struct {
	shared.BaseDomainEvent
	VoucherID   uuid.UUID `json:"voucher_id"`
	RequestedBy uuid.UUID `json:"requested_by"`
	DecidedBy   uuid.UUID `json:"decided_by"`
}

// NewClaimRejectedEvent creates a new ClaimRejectedEvent
func NewClaimRejectedEvent(recordID, voucherID, requestedBy, decidedBy uuid.UUID) *ClaimRejectedEvent {
	return &ClaimRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimRejected, AggregateTypeClaimRecord, recordID),
		VoucherID:       voucherID,
		RequestedBy:     requestedBy,
		DecidedBy:       decidedBy,
	}
}

// ClaimReleasedEvent is raised when an admin strips ownership from a voucher
type ClaimReleasedEvent struct {
	shared.BaseDomainEvent
	VoucherID  uuid.UUID `json:"voucher_id"`
	ReleasedBy uuid.UUID `json:"released_by"`
}

// NewClaimReleasedEvent creates a new ClaimReleasedEvent
func NewClaimReleasedEvent(recordID, voucherID, releasedBy uuid.UUID) *ClaimReleasedEvent {
	return &ClaimReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClaimReleased, AggregateTypeClaimRecord, recordID),
		VoucherID:       voucherID,
		ReleasedBy:      releasedBy,
	}
}
