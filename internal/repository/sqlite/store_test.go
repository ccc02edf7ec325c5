package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewStore(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestInTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(r repository.Repos) error {
		if err := r.Users.Create(ctx, &domain.User{ID: "u1", Name: "Alice", Surname: "Smith"}); err != nil {
			return err
		}
		if err := r.Ledger.AddCollectedPayments(ctx, 42); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := store.Repos()
	_, err = repos.Users.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pool, err := repos.Ledger.CollectedPayments(ctx)
	require.NoError(t, err)
	assert.Zero(t, pool)
}

func TestInTxCommits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.InTx(ctx, func(r repository.Repos) error {
		return r.Users.Create(ctx, &domain.User{ID: "u1", Name: "Alice", Surname: "Smith"})
	})
	require.NoError(t, err)

	user, err := store.Repos().Users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestInitIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Repos().Ledger.AddCollectedPayments(ctx, 7))
	// re-running Init must not reset the ledger row
	require.NoError(t, store.Init(ctx))

	pool, err := store.Repos().Ledger.CollectedPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pool)
}

func TestCarSequentialIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cars := store.Repos().Cars

	for i := 1; i <= 3; i++ {
		id, err := cars.Create(ctx, &domain.Car{
			Name:    "Car",
			RentFee: 10,
			SaleFee: 100,
			Status:  domain.CarStatusAvailable,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i), id)
	}

	count, err := cars.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
