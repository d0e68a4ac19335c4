package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/repository"
	"github.com/josh-kwaku/loan-servicing/internal/testutil"
)

func insertPayment(t *testing.T, db *sql.DB, c *domain.Contract, amount string) *domain.Payment {
	t.Helper()
	ctx := context.Background()
	payments := repository.NewPaymentRepository(db)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	now := time.Now().UTC()
	number, err := payments.NextReceiptNumber(ctx, tx, now)
	require.NoError(t, err)

	p := &domain.Payment{
		ID:                  uuid.New(),
		ContractID:          c.ID,
		ReceiptNumber:       number,
		Amount:              decimal.RequireFromString(amount),
		PaymentDate:         now.Truncate(24 * time.Hour),
		PaymentMethod:       domain.PaymentMethodCash,
		InterestPortion:     decimal.RequireFromString(amount),
		PrincipalPortion:    decimal.Zero,
		BalanceBefore:       c.CurrentBalance,
		BalanceAfterPayment: c.CurrentBalance,
		RecordedBy:          c.UserID,
		CreatedAt:           now,
	}
	require.NoError(t, payments.Create(ctx, tx, p))
	require.NoError(t, tx.Commit())
	return p
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewIdempotencyRepository(db)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "lender@test.com", "Lender")
	now := time.Now().UTC()

	record := func(key, hash string, expires time.Time) *repository.IdempotencyRecord {
		return &repository.IdempotencyRecord{
			Key:         key,
			UserID:      user.ID,
			RequestHash: hash,
			CreatedAt:   now,
			ExpiresAt:   expires,
		}
	}

	t.Run("absent key", func(t *testing.T) {
		got, err := repo.Lookup(ctx, "missing", user.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := repo.Claim(ctx, record("k-1", "first", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Claim(ctx, record("k-1", "second", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.Lookup(ctx, "k-1", user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "first", got.RequestHash)
		assert.True(t, got.Pending())
	})

	t.Run("complete stores the response once", func(t *testing.T) {
		require.NoError(t, repo.Complete(ctx, "k-1", user.ID, 201, []byte(`{"success":true}`)))
		require.NoError(t, repo.Complete(ctx, "k-1", user.ID, 400, []byte(`{}`)))

		got, err := repo.Lookup(ctx, "k-1", user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.Pending())
		assert.Equal(t, 201, got.StatusCode)
		assert.JSONEq(t, `{"success":true}`, string(got.ResponseBody))

		require.NoError(t, repo.Release(ctx, "k-1", user.ID))
		got, err = repo.Lookup(ctx, "k-1", user.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("release frees a pending claim", func(t *testing.T) {
		ok, err := repo.Claim(ctx, record("k-4", "h", now.Add(time.Hour)))
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, repo.Release(ctx, "k-4", user.ID))

		ok, err = repo.Claim(ctx, record("k-4", "h", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("keys are scoped per user", func(t *testing.T) {
		got, err := repo.Lookup(ctx, "k-1", uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired record is invisible and replaceable", func(t *testing.T) {
		ok, err := repo.Claim(ctx, record("k-2", "old", now.Add(-time.Minute)))
		require.NoError(t, err)
		require.True(t, ok)

		got, err := repo.Lookup(ctx, "k-2", user.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		ok, err = repo.Claim(ctx, record("k-2", "new", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.True(t, ok)
		got, err = repo.Lookup(ctx, "k-2", user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "new", got.RequestHash)
	})

	t.Run("delete expired", func(t *testing.T) {
		ok, err := repo.Claim(ctx, record("k-3", "stale", now.Add(-time.Hour)))
		require.NoError(t, err)
		require.True(t, ok)

		n, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := repo.Lookup(ctx, "k-1", user.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func TestContractRepository_ScopedToLender(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewContractRepository(db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedUser(t, db, "other@test.com", "Other")
	client := testutil.SeedClient(t, db, owner.ID, "Maria Silva")
	contract := testutil.SeedContract(t, db, owner.ID, client.ID, "1000", "10", 15)

	got, err := repo.GetByID(ctx, owner.ID, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.ClientName)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	_, err = repo.GetByID(ctx, other.ID, contract.ID)
	require.ErrorIs(t, err, domain.ErrContractNotFound)

	byNumber, err := repo.GetByNumber(ctx, owner.ID, contract.ContractNumber)
	require.NoError(t, err)
	assert.Equal(t, contract.ID, byNumber.ID)

	open, err := repo.ListOpenByClient(ctx, owner.ID, client.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Nil(t, open[0].LastPaymentDate)
}

func TestContractRepository_UpdateBalanceChecksVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewContractRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "lender@test.com", "Lender")
	client := testutil.SeedClient(t, db, user.ID, "Maria Silva")
	contract := testutil.SeedContract(t, db, user.ID, client.ID, "1000", "10", 15)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := repo.GetForUpdate(ctx, tx, user.ID, contract.ID)
	require.NoError(t, err)

	err = repo.UpdateBalance(ctx, tx, contract.ID, decimal.NewFromInt(800), domain.ContractStatusActive, locked.Version+5)
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	require.NoError(t, repo.UpdateBalance(ctx, tx, contract.ID, decimal.NewFromInt(800), domain.ContractStatusActive, locked.Version+1))
	require.NoError(t, tx.Commit())

	balance, status := testutil.GetContractBalance(t, db, contract.ID)
	assert.True(t, balance.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, domain.ContractStatusActive, status)
}

func TestContractRepository_DeleteRefusesWithPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewContractRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "lender@test.com", "Lender")
	client := testutil.SeedClient(t, db, user.ID, "Maria Silva")
	paid := testutil.SeedContract(t, db, user.ID, client.ID, "1000", "10", 15)
	empty := testutil.SeedContract(t, db, user.ID, client.ID, "500", "5", 10)

	insertPayment(t, db, paid, "100")

	err := repo.Delete(ctx, user.ID, paid.ID)
	require.ErrorIs(t, err, domain.ErrContractHasPayments)

	require.NoError(t, repo.Delete(ctx, user.ID, empty.ID))
	_, err = repo.GetByID(ctx, user.ID, empty.ID)
	require.ErrorIs(t, err, domain.ErrContractNotFound)

	err = repo.Delete(ctx, user.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrContractNotFound)
}

func TestPaymentRepository_ReceiptNumbersAreUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.SeedUser(t, db, "lender@test.com", "Lender")
	client := testutil.SeedClient(t, db, user.ID, "Maria Silva")
	contract := testutil.SeedContract(t, db, user.ID, client.ID, "1000", "10", 15)

	first := insertPayment(t, db, contract, "100")
	second := insertPayment(t, db, contract, "100")

	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
	assert.Regexp(t, `^REC-\d{4}-\d{6}$`, first.ReceiptNumber)

	list, err := repository.NewPaymentRepository(db).ListByContract(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
