package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salesops/backend/internal/application/reconciliation"
	"github.com/salesops/backend/internal/infrastructure/config"
	"github.com/salesops/backend/internal/infrastructure/logger"
	"github.com/salesops/backend/internal/infrastructure/persistence"
	"github.com/salesops/backend/internal/infrastructure/runguard"
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a payment reconciliation pass over the customer ledger",
	Long: `Reconcile allocates each customer's outstanding balance against their
tax invoices newest-first and rewrites the stored payment statuses.

Customers are processed concurrently on a bounded worker pool. A customer
already being reconciled by another run is skipped and counted, not retried.`,
	Example: `  # Reconcile every customer with a credit profile
  reconcile

  # Reconcile as of a past date with a larger pool
  reconcile --as-of 2026-06-30 --workers 16

  # Reconcile a single customer
  reconcile --customer 6a1f8b7e-0f33-4b5a-9b44-1c2d3e4f5a6b`,
	RunE: run,
}

func init() {
	rootCmd.Flags().String("as-of", "", "Evaluation date (YYYY-MM-DD, default: today)")
	rootCmd.Flags().Int("workers", 0, "Worker pool size (default: from configuration)")
	rootCmd.Flags().StringSlice("customer", nil, "Customer ID to reconcile, repeatable (default: all)")
	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	asOfStr, _ := cmd.Flags().GetString("as-of")
	workers, _ := cmd.Flags().GetInt("workers")
	customers, _ := cmd.Flags().GetStringSlice("customer")
	logLevel, _ := cmd.Flags().GetString("log-level")

	var asOf time.Time
	if asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			return fmt.Errorf("invalid as-of date, use YYYY-MM-DD: %w", err)
		}
		asOf = parsed
	}

	customerIDs := make([]uuid.UUID, 0, len(customers))
	for _, raw := range customers {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid customer ID %q: %w", raw, err)
		}
		customerIDs = append(customerIDs, id)
	}

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if workers <= 0 {
		workers = cfg.Run.Workers
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	profileRepo := persistence.NewGormCreditProfileRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	statusRepo := persistence.NewGormVoucherStatusRepository(db.DB)

	// The guard only matters when runs can overlap. A CLI invocation against
	// a shared database still needs Redis to coordinate with the server.
	var svc *reconciliation.RunService
	if cfg.Redis.Enabled {
		guard, err := runguard.NewRedisGuard(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		svc = reconciliation.NewRunService(profileRepo, voucherRepo, statusRepo, guard, log,
			reconciliation.WithWorkers(workers),
			reconciliation.WithGuardTTL(cfg.Run.GuardTTL),
		)
	} else {
		guard := runguard.NewMemoryGuard()
		defer guard.Close()
		svc = reconciliation.NewRunService(profileRepo, voucherRepo, statusRepo, guard, log,
			reconciliation.WithWorkers(workers),
			reconciliation.WithGuardTTL(cfg.Run.GuardTTL),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	summary, err := svc.Run(ctx, reconciliation.RunOptions{
		AsOf:        asOf,
		CustomerIDs: customerIDs,
		Workers:     workers,
	})
	if err != nil {
		return fmt.Errorf("reconciliation run failed: %w", err)
	}

	log.Info("Reconciliation run finished",
		zap.Time("as_of", summary.AsOf),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
		zap.Int("customers_processed", summary.CustomersProcessed),
		zap.Int("customers_skipped", summary.CustomersSkipped),
		zap.Int("customers_locked", summary.CustomersLocked),
		zap.Int("customers_failed", summary.CustomersFailed),
		zap.Int("vouchers_processed", summary.VouchersProcessed),
		zap.Int("vouchers_skipped", summary.VouchersSkipped),
		zap.Bool("cancelled", summary.Cancelled),
	)

	for _, outcome := range summary.Outcomes {
		if outcome.Error != "" {
			log.Warn("Customer reconciliation failed",
				zap.String("customer_id", outcome.CustomerID.String()),
				zap.String("error", outcome.Error),
			)
		}
	}

	if summary.CustomersFailed > 0 || summary.Cancelled {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
