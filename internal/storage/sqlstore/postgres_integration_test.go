//go:build integration

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newPostgresStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("splitledger"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgres_ExpenseLifecycle(t *testing.T) {
	store := newPostgresStore(t)
	ctx := context.Background()
	repos := store.Repos()

	a, err := repos.Users().Create(ctx, models.NewUser("a", "a@example.com", "h"))
	require.NoError(t, err)
	b, err := repos.Users().Create(ctx, models.NewUser("b", "b@example.com", "h"))
	require.NoError(t, err)

	_, err = repos.Users().Create(ctx, models.NewUser("a2", "a@example.com", "h"))
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	cat, err := repos.Categories().Create(ctx, "Food")
	require.NoError(t, err)

	_, err = repos.Expenses().Create(ctx, &models.Expense{
		UserID: a, FriendID: b, CategoryID: cat, Amount: decimal.RequireFromString("10.25"),
		Description: "pizza", Date: day(3), PaidBy: a,
	})
	require.NoError(t, err)

	got, err := repos.Expenses().ListByDateRange(ctx, day(1), day(3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Food", got[0].CategoryName)
	assert.True(t, decimal.RequireFromString("10.25").Equal(got[0].Amount))
	assert.Equal(t, day(3), got[0].Date)

	err = store.InTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		n, err := repos.Expenses().DeleteBetween(ctx, a, b)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)

	left, err := repos.Expenses().ListBetween(ctx, a, b)
	require.NoError(t, err)
	assert.Empty(t, left)
}
