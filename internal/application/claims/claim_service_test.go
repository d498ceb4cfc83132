package claims

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/claim"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockClaimRecordRepository struct {
	mock.Mock
}

func (m *MockClaimRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*claim.ClaimRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claim.ClaimRecord), args.Error(1)
}

func (m *MockClaimRecordRepository) FindByVoucherID(ctx context.Context, voucherID uuid.UUID) (*claim.ClaimRecord, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claim.ClaimRecord), args.Error(1)
}

func (m *MockClaimRecordRepository) FindAll(ctx context.Context, filter claim.ClaimRecordFilter) ([]claim.ClaimRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]claim.ClaimRecord), args.Error(1)
}

func (m *MockClaimRecordRepository) FindPending(ctx context.Context, filter claim.ClaimRecordFilter) ([]claim.ClaimRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]claim.ClaimRecord), args.Error(1)
}

func (m *MockClaimRecordRepository) Save(ctx context.Context, record *claim.ClaimRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.Voucher, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]ledger.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindLineItems(ctx context.Context, voucherID uuid.UUID) ([]ledger.VoucherLineItem, error) {
	args := m.Called(ctx, voucherID)
	return args.Get(0).([]ledger.VoucherLineItem), args.Error(1)
}

func testVoucher() *ledger.Voucher {
	return &ledger.Voucher{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Number:     "TI-001",
		Kind:       ledger.VoucherKindTaxInvoice,
		IssueDate:  time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.NewFromInt(1000),
	}
}

func TestSelfClaim(t *testing.T) {
	t.Run("creates the record lazily on first activity", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucherRepo := new(MockVoucherRepository)
		voucher := testVoucher()
		actor := Actor{ID: uuid.New(), Name: "Priya Sharma"}

		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(nil, shared.ErrNotFound)
		voucherRepo.On("FindByID", mock.Anything, voucher.ID).Return(voucher, nil)
		claimRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewClaimService(claimRepo, voucherRepo, zap.NewNop())
		record, err := service.SelfClaim(context.Background(), voucher.ID, actor)
		require.NoError(t, err)

		assert.Equal(t, claim.ClaimStatusApproved, record.Status)
		assert.Equal(t, actor.ID, record.SoldBy)
		assert.Equal(t, voucher.Number, record.VoucherNumber)
		claimRepo.AssertCalled(t, "Save", mock.Anything, record)
	})

	t.Run("fails when the voucher does not exist", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucherRepo := new(MockVoucherRepository)
		voucherID := uuid.New()

		claimRepo.On("FindByVoucherID", mock.Anything, voucherID).Return(nil, shared.ErrNotFound)
		voucherRepo.On("FindByID", mock.Anything, voucherID).Return(nil, shared.ErrNotFound)

		service := NewClaimService(claimRepo, voucherRepo, zap.NewNop())
		_, err := service.SelfClaim(context.Background(), voucherID, Actor{ID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("does not persist a rejected transition", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucher := testVoucher()
		record, err := claim.NewClaimRecord(voucher.ID, voucher.Number)
		require.NoError(t, err)
		require.NoError(t, record.SelfClaim(uuid.New(), "Priya Sharma"))
		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(record, nil)

		service := NewClaimService(claimRepo, new(MockVoucherRepository), zap.NewNop())
		_, err = service.SelfClaim(context.Background(), voucher.ID, Actor{ID: uuid.New(), Name: "Rohit Verma"})
		assert.Error(t, err)
		claimRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRequestAndDecide(t *testing.T) {
	setupPending := func(t *testing.T, owner uuid.UUID) (*MockClaimRecordRepository, *claim.ClaimRecord, uuid.UUID) {
		t.Helper()
		voucher := testVoucher()
		record, err := claim.NewClaimRecord(voucher.ID, voucher.Number)
		require.NoError(t, err)
		record.SoldBy = owner
		record.SoldByName = "Priya Sharma"
		require.NoError(t, record.RequestClaim(uuid.New(), "Rohit Verma"))

		claimRepo := new(MockClaimRecordRepository)
		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(record, nil)
		return claimRepo, record, voucher.ID
	}

	t.Run("request opens a pending cycle", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucherRepo := new(MockVoucherRepository)
		voucher := testVoucher()
		requester := Actor{ID: uuid.New(), Name: "Rohit Verma"}

		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(nil, shared.ErrNotFound)
		voucherRepo.On("FindByID", mock.Anything, voucher.ID).Return(voucher, nil)
		claimRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewClaimService(claimRepo, voucherRepo, zap.NewNop())
		record, err := service.RequestClaim(context.Background(), voucher.ID, requester)
		require.NoError(t, err)
		assert.Equal(t, claim.ClaimStatusPending, record.Status)
		assert.Equal(t, requester.ID, record.ClaimRequestedBy)
	})

	t.Run("owner approves through the service", func(t *testing.T) {
		owner := uuid.New()
		claimRepo, record, voucherID := setupPending(t, owner)
		claimRepo.On("Save", mock.Anything, record).Return(nil)

		service := NewClaimService(claimRepo, new(MockVoucherRepository), zap.NewNop())
		decided, err := service.Decide(context.Background(), voucherID, Actor{ID: owner}, true)
		require.NoError(t, err)
		assert.Equal(t, claim.ClaimStatusApproved, decided.Status)
	})

	t.Run("non-owner decision is rejected and not saved", func(t *testing.T) {
		claimRepo, _, voucherID := setupPending(t, uuid.New())

		service := NewClaimService(claimRepo, new(MockVoucherRepository), zap.NewNop())
		_, err := service.Decide(context.Background(), voucherID, Actor{ID: uuid.New()}, true)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		claimRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("admin rejects without owning", func(t *testing.T) {
		claimRepo, record, voucherID := setupPending(t, uuid.New())
		claimRepo.On("Save", mock.Anything, record).Return(nil)

		service := NewClaimService(claimRepo, new(MockVoucherRepository), zap.NewNop())
		decided, err := service.Decide(context.Background(), voucherID, Actor{ID: uuid.New(), Admin: true}, false)
		require.NoError(t, err)
		assert.Equal(t, claim.ClaimStatusRejected, decided.Status)
	})
}

func TestAdminOverrides(t *testing.T) {
	t.Run("assign requires the admin flag", func(t *testing.T) {
		service := NewClaimService(new(MockClaimRecordRepository), new(MockVoucherRepository), zap.NewNop())
		_, err := service.AdminAssign(context.Background(), uuid.New(), uuid.New(), "Anil Kumar", Actor{ID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("assign forces ownership", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucherRepo := new(MockVoucherRepository)
		voucher := testVoucher()
		salesperson := uuid.New()

		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(nil, shared.ErrNotFound)
		voucherRepo.On("FindByID", mock.Anything, voucher.ID).Return(voucher, nil)
		claimRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		service := NewClaimService(claimRepo, voucherRepo, zap.NewNop())
		record, err := service.AdminAssign(context.Background(), voucher.ID, salesperson, "Anil Kumar",
			Actor{ID: uuid.New(), Admin: true})
		require.NoError(t, err)
		assert.Equal(t, salesperson, record.SoldBy)
		assert.Equal(t, claim.ClaimStatusApproved, record.Status)
	})

	t.Run("release strips ownership", func(t *testing.T) {
		claimRepo := new(MockClaimRecordRepository)
		voucher := testVoucher()
		record, err := claim.NewClaimRecord(voucher.ID, voucher.Number)
		require.NoError(t, err)
		require.NoError(t, record.SelfClaim(uuid.New(), "Priya Sharma"))

		claimRepo.On("FindByVoucherID", mock.Anything, voucher.ID).Return(record, nil)
		claimRepo.On("Save", mock.Anything, record).Return(nil)

		service := NewClaimService(claimRepo, new(MockVoucherRepository), zap.NewNop())
		released, err := service.AdminRelease(context.Background(), voucher.ID, Actor{ID: uuid.New(), Admin: true})
		require.NoError(t, err)
		assert.Equal(t, claim.ClaimStatusNone, released.Status)
		assert.False(t, released.IsOwned())
	})

	t.Run("release requires the admin flag", func(t *testing.T) {
		service := NewClaimService(new(MockClaimRecordRepository), new(MockVoucherRepository), zap.NewNop())
		_, err := service.AdminRelease(context.Background(), uuid.New(), Actor{ID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
