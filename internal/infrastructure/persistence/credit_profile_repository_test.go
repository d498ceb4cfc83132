package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
)

// newMockCreditProfileRepository creates a GormCreditProfileRepository with a mocked SQL connection
func newMockCreditProfileRepository(t *testing.T) (*GormCreditProfileRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCreditProfileRepository(gormDB), mock, mockDB
}

func TestGormCreditProfileRepository_FindByCustomerID(t *testing.T) {
	t.Run("finds existing profile", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditProfileRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "customer_id", "customer_name", "outstanding_balance", "credit_period_days", "version"}).
			AddRow(uuid.New(), customerID, "Sharma Traders", decimal.NewFromInt(15000), 30, 1)

		mock.ExpectQuery(`SELECT \* FROM "credit_profiles" WHERE customer_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		profile, err := repo.FindByCustomerID(context.Background(), customerID)

		assert.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, customerID, profile.CustomerID)
		assert.Equal(t, "Sharma Traders", profile.CustomerName)
		assert.True(t, profile.OutstandingBalance.Equal(decimal.NewFromInt(15000)))
		assert.Equal(t, 30, profile.CreditPeriodDays)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for untracked customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditProfileRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "credit_profiles" WHERE customer_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		profile, err := repo.FindByCustomerID(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, profile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCreditProfileRepository_FindWithDebt(t *testing.T) {
	repo, mock, mockDB := newMockCreditProfileRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "customer_id", "customer_name", "outstanding_balance", "credit_period_days", "version"}).
		AddRow(uuid.New(), uuid.New(), "Gupta Stores", decimal.NewFromInt(25000), 45, 1).
		AddRow(uuid.New(), uuid.New(), "Verma Agencies", decimal.NewFromInt(8000), 30, 1)

	mock.ExpectQuery(`SELECT \* FROM "credit_profiles" WHERE outstanding_balance > 0 ORDER BY outstanding_balance DESC`).
		WillReturnRows(rows)

	profiles, err := repo.FindWithDebt(context.Background())

	assert.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Gupta Stores", profiles[0].CustomerName)
	assert.True(t, profiles[1].OutstandingBalance.Equal(decimal.NewFromInt(8000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreditProfileRepository_Save(t *testing.T) {
	repo, mock, mockDB := newMockCreditProfileRepository(t)
	defer mockDB.Close()

	profile, err := ledger.NewCreditProfile(uuid.New(), "Sharma Traders", decimal.NewFromInt(12000), 30)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "credit_profiles" SET .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(context.Background(), profile)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreditProfileRepository_Delete(t *testing.T) {
	t.Run("deletes existing profile", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditProfileRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "credit_profiles" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockCreditProfileRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "credit_profiles" WHERE customer_id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
