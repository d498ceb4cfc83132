package claim

import (
	"context"

	"github.com/google/uuid"
)

// ClaimRecordFilter defines filtering options for claim record queries
type ClaimRecordFilter struct {
	SoldBy      *uuid.UUID   // Filter by owning salesperson
	RequestedBy *uuid.UUID   // Filter by requesting salesperson
	Status      *ClaimStatus // Filter by claim status
	Limit       int
	Offset      int
}

// ClaimRecordRepository defines the interface for claim record persistence
type ClaimRecordRepository interface {
	// FindByID finds a claim record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ClaimRecord, error)

	// FindByVoucherID finds the claim record for a voucher
	FindByVoucherID(ctx context.Context, voucherID uuid.UUID) (*ClaimRecord, error)

	// FindAll returns claim records matching the filter
	FindAll(ctx context.Context, filter ClaimRecordFilter) ([]ClaimRecord, error)

	// FindPending returns all records awaiting a decision
	FindPending(ctx context.Context, filter ClaimRecordFilter) ([]ClaimRecord, error)

	// Save creates or updates a claim record
	Save(ctx context.Context, record *ClaimRecord) error
}
