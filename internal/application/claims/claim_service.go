package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/claim"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClaimService drives the per-voucher sales credit workflow.
// A claim record is created lazily the first time a voucher sees any claim
// activity; vouchers with no activity have no record.
type ClaimService struct {
	claimRepo   claim.ClaimRecordRepository
	voucherRepo ledger.VoucherRepository
	logger      *zap.Logger
}

// NewClaimService creates a new ClaimService
func NewClaimService(claimRepo claim.ClaimRecordRepository, voucherRepo ledger.VoucherRepository, logger *zap.Logger) *ClaimService {
	return &ClaimService{
		claimRepo:   claimRepo,
		voucherRepo: voucherRepo,
		logger:      logger,
	}
}

// Actor identifies who is performing a claim operation
type Actor struct {
	ID    uuid.UUID
	Name  string
	Admin bool
}

// SelfClaim attributes a voucher directly to the acting salesperson
func (s *ClaimService) SelfClaim(ctx context.Context, voucherID uuid.UUID, actor Actor) (*claim.ClaimRecord, error) {
	record, err := s.loadOrCreate(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if err := record.SelfClaim(actor.ID, actor.Name); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save claim record: %w", err)
	}
	s.logger.Info("Voucher self-claimed",
		zap.String("voucher_id", voucherID.String()),
		zap.String("salesperson_id", actor.ID.String()))
	return record, nil
}

// RequestClaim opens a pending credit request on a voucher
func (s *ClaimService) RequestClaim(ctx context.Context, voucherID uuid.UUID, actor Actor) (*claim.ClaimRecord, error) {
	record, err := s.loadOrCreate(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if err := record.RequestClaim(actor.ID, actor.Name); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save claim record: %w", err)
	}
	s.logger.Info("Claim requested",
		zap.String("voucher_id", voucherID.String()),
		zap.String("requested_by", actor.ID.String()))
	return record, nil
}

// Decide approves or rejects the pending request on a voucher
func (s *ClaimService) Decide(ctx context.Context, voucherID uuid.UUID, actor Actor, approve bool) (*claim.ClaimRecord, error) {
	record, err := s.claimRepo.FindByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	if approve {
		err = record.Approve(actor.ID, actor.Admin)
	} else {
		err = record.Reject(actor.ID, actor.Admin)
	}
	if err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save claim record: %w", err)
	}
	s.logger.Info("Claim decided",
		zap.String("voucher_id", voucherID.String()),
		zap.String("decided_by", actor.ID.String()),
		zap.Bool("approved", approve),
		zap.Bool("as_admin", actor.Admin))
	return record, nil
}

// AdminAssign forces ownership of a voucher to a salesperson
func (s *ClaimService) AdminAssign(ctx context.Context, voucherID, salespersonID uuid.UUID, salespersonName string, admin Actor) (*claim.ClaimRecord, error) {
	if !admin.Admin {
		return nil, shared.ErrUnauthorized
	}
	record, err := s.loadOrCreate(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if err := record.AdminAssign(salespersonID, salespersonName, admin.ID); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save claim record: %w", err)
	}
	s.logger.Info("Claim force-assigned",
		zap.String("voucher_id", voucherID.String()),
		zap.String("salesperson_id", salespersonID.String()),
		zap.String("admin_id", admin.ID.String()))
	return record, nil
}

// AdminRelease strips ownership of a voucher
func (s *ClaimService) AdminRelease(ctx context.Context, voucherID uuid.UUID, admin Actor) (*claim.ClaimRecord, error) {
	if !admin.Admin {
		return nil, shared.ErrUnauthorized
	}
	record, err := s.claimRepo.FindByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if err := record.AdminRelease(admin.ID); err != nil {
		return nil, err
	}
	if err := s.claimRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save claim record: %w", err)
	}
	s.logger.Info("Claim released",
		zap.String("voucher_id", voucherID.String()),
		zap.String("admin_id", admin.ID.String()))
	return record, nil
}

// GetByVoucher returns the claim record for a voucher
func (s *ClaimService) GetByVoucher(ctx context.Context, voucherID uuid.UUID) (*claim.ClaimRecord, error) {
	return s.claimRepo.FindByVoucherID(ctx, voucherID)
}

// ListPending returns records awaiting a decision
func (s *ClaimService) ListPending(ctx context.Context, filter claim.ClaimRecordFilter) ([]claim.ClaimRecord, error) {
	return s.claimRepo.FindPending(ctx, filter)
}

func (s *ClaimService) loadOrCreate(ctx context.Context, voucherID uuid.UUID) (*claim.ClaimRecord, error) {
	record, err := s.claimRepo.FindByVoucherID(ctx, voucherID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	voucher, err := s.voucherRepo.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	return claim.NewClaimRecord(voucher.ID, voucher.Number)
}
