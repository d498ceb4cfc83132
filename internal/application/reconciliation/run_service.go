package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RunService orchestrates a reconciliation pass over the customer population.
//
// Customers are independent of each other, so the run fans out over a bounded
// worker pool. Within one customer the allocation is strictly sequential and
// its statuses are committed in a single transaction, so a cancelled or
// crashed run leaves every already-committed customer consistent.
type RunService struct {
	profileRepo ledger.CreditProfileRepository
	voucherRepo ledger.VoucherRepository
	writer      ledger.ReconciliationWriter
	allocator   *ledger.Allocator
	guard       shared.RunGuard
	guardTTL    time.Duration
	workers     int
	logger      *zap.Logger
}

// RunServiceOption configures a RunService
type RunServiceOption func(*RunService)

// WithWorkers sets the default worker pool size
func WithWorkers(n int) RunServiceOption {
	return func(s *RunService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithGuardTTL sets how long a per-customer run lock is held at most
func WithGuardTTL(ttl time.Duration) RunServiceOption {
	return func(s *RunService) {
		if ttl > 0 {
			s.guardTTL = ttl
		}
	}
}

// NewRunService creates a new RunService
func NewRunService(
	profileRepo ledger.CreditProfileRepository,
	voucherRepo ledger.VoucherRepository,
	writer ledger.ReconciliationWriter,
	guard shared.RunGuard,
	logger *zap.Logger,
	opts ...RunServiceOption,
) *RunService {
	s := &RunService{
		profileRepo: profileRepo,
		voucherRepo: voucherRepo,
		writer:      writer,
		allocator:   ledger.NewAllocator(),
		guard:       guard,
		guardTTL:    shared.DefaultRunGuardConfig().TTL,
		workers:     4,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOptions narrows one reconciliation pass
type RunOptions struct {
	AsOf        time.Time   // Evaluation date; zero means now
	CustomerIDs []uuid.UUID // Empty means every customer with a profile
	Workers     int         // Overrides the service default when positive
}

// CustomerOutcome is the per-customer result of a run
type CustomerOutcome struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	StatusesWritten  int             `json:"statuses_written"`
	VouchersSkipped  int             `json:"vouchers_skipped"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Error            string          `json:"error,omitempty"`
}

// RunSummary aggregates the outcome of one reconciliation pass
type RunSummary struct {
	StartedAt          time.Time         `json:"started_at"`
	FinishedAt         time.Time         `json:"finished_at"`
	AsOf               time.Time         `json:"as_of"`
	CustomersProcessed int               `json:"customers_processed"`
	CustomersSkipped   int               `json:"customers_skipped"` // no credit profile
	CustomersLocked    int               `json:"customers_locked"`  // another run held the guard
	CustomersFailed    int               `json:"customers_failed"`
	VouchersProcessed  int               `json:"vouchers_processed"`
	VouchersSkipped    int               `json:"vouchers_skipped"` // malformed, reported and continued
	Cancelled          bool              `json:"cancelled"`
	Outcomes           []CustomerOutcome `json:"outcomes"`
}

// Run executes one reconciliation pass and returns its summary. Individual
// customer failures are contained and counted; only infrastructure failures
// that prevent the run from starting are returned as errors.
func (s *RunService) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	workers := s.workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	summary := &RunSummary{StartedAt: time.Now().UTC(), AsOf: asOf}

	profiles, skipped, err := s.loadProfiles(ctx, opts.CustomerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit profiles: %w", err)
	}
	summary.CustomersSkipped = skipped

	s.logger.Info("Reconciliation run starting",
		zap.Int("customers", len(profiles)),
		zap.Int("workers", workers),
		zap.Time("as_of", asOf))

	jobs := make(chan ledger.CreditProfile)
	outcomes := make(chan CustomerOutcome, len(profiles))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for profile := range jobs {
				outcomes <- s.reconcileCustomer(ctx, &profile, asOf)
			}
		}()
	}

feed:
	for _, profile := range profiles {
		select {
		case <-ctx.Done():
			summary.Cancelled = true
			break feed
		case jobs <- profile:
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Error {
		case "":
			summary.CustomersProcessed++
			summary.VouchersProcessed += outcome.StatusesWritten
			summary.VouchersSkipped += outcome.VouchersSkipped
		case shared.ErrRunInProgress.Message:
			summary.CustomersLocked++
		default:
			summary.CustomersFailed++
		}
	}

	summary.FinishedAt = time.Now().UTC()
	s.logger.Info("Reconciliation run finished",
		zap.Int("processed", summary.CustomersProcessed),
		zap.Int("skipped", summary.CustomersSkipped),
		zap.Int("locked", summary.CustomersLocked),
		zap.Int("failed", summary.CustomersFailed),
		zap.Bool("cancelled", summary.Cancelled),
		zap.Duration("took", summary.FinishedAt.Sub(summary.StartedAt)))
	return summary, nil
}

// ReconcileCustomer runs the allocation for a single customer. A customer
// without a credit profile is not an error; (nil, nil) is returned.
func (s *RunService) ReconcileCustomer(ctx context.Context, customerID uuid.UUID, asOf time.Time) (*CustomerOutcome, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	profile, err := s.profileRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load credit profile for customer %s: %w", customerID, err)
	}
	if profile == nil {
		return nil, nil
	}

	outcome := s.reconcileCustomer(ctx, profile, asOf)
	if outcome.Error != "" {
		if outcome.Error == shared.ErrRunInProgress.Message {
			return nil, shared.ErrRunInProgress
		}
		return nil, fmt.Errorf("reconciliation failed for customer %s: %s", customerID, outcome.Error)
	}
	return &outcome, nil
}

func (s *RunService) loadProfiles(ctx context.Context, customerIDs []uuid.UUID) ([]ledger.CreditProfile, int, error) {
	if len(customerIDs) == 0 {
		profiles, err := s.profileRepo.FindAll(ctx)
		return profiles, 0, err
	}

	profiles := make([]ledger.CreditProfile, 0, len(customerIDs))
	skipped := 0
	for _, id := range customerIDs {
		profile, err := s.profileRepo.FindByCustomerID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				skipped++
				continue
			}
			return nil, 0, err
		}
		if profile == nil {
			skipped++
			continue
		}
		profiles = append(profiles, *profile)
	}
	return profiles, skipped, nil
}

func (s *RunService) reconcileCustomer(ctx context.Context, profile *ledger.CreditProfile, asOf time.Time) CustomerOutcome {
	outcome := CustomerOutcome{CustomerID: profile.CustomerID}

	key := guardKey(profile.CustomerID)
	acquired, err := s.guard.Acquire(ctx, key, s.guardTTL)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to acquire run guard: %v", err)
		s.logger.Error("Run guard acquisition failed",
			zap.String("customer_id", profile.CustomerID.String()), zap.Error(err))
		return outcome
	}
	if !acquired {
		outcome.Error = shared.ErrRunInProgress.Message
		s.logger.Warn("Customer already mid-run, skipping",
			zap.String("customer_id", profile.CustomerID.String()))
		return outcome
	}
	defer func() {
		if err := s.guard.Release(ctx, key); err != nil {
			s.logger.Warn("Failed to release run guard",
				zap.String("customer_id", profile.CustomerID.String()), zap.Error(err))
		}
	}()

	vouchers, err := s.voucherRepo.FindByCustomer(ctx, profile.CustomerID)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to load vouchers: %v", err)
		s.logger.Error("Voucher load failed",
			zap.String("customer_id", profile.CustomerID.String()), zap.Error(err))
		return outcome
	}

	result, err := s.allocator.Allocate(profile, vouchers, asOf)
	if err != nil {
		outcome.Error = fmt.Sprintf("allocation rejected: %v", err)
		s.logger.Error("Allocation rejected",
			zap.String("customer_id", profile.CustomerID.String()), zap.Error(err))
		return outcome
	}
	for _, skippedVoucher := range result.Skipped {
		s.logger.Warn("Voucher skipped during allocation",
			zap.String("customer_id", profile.CustomerID.String()),
			zap.String("voucher_id", skippedVoucher.VoucherID),
			zap.String("reason", skippedVoucher.Reason))
	}

	if err := s.writer.ReplaceForCustomer(ctx, profile.CustomerID, result.Statuses); err != nil {
		outcome.Error = fmt.Sprintf("failed to persist statuses: %v", err)
		s.logger.Error("Status write failed",
			zap.String("customer_id", profile.CustomerID.String()), zap.Error(err))
		return outcome
	}

	outcome.StatusesWritten = len(result.Statuses)
	outcome.VouchersSkipped = len(result.Skipped)
	outcome.RemainingBalance = result.RemainingBalance
	return outcome
}

func guardKey(customerID uuid.UUID) string {
	return "reconcile:customer:" + customerID.String()
}
