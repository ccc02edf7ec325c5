package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"rentledger/internal/repository"
)

// Store owns the ledger tables. Its mutex plus one sqlite transaction per
// InTx call gives every mutating operation the exclusive, all-or-nothing
// semantics the ledger requires.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the ledger tables.
func (s *Store) Init(ctx context.Context) error {
	for _, r := range []interface {
		Init(ctx context.Context) error
	}{
		newUserRepository(s.db),
		newCarRepository(s.db),
		newLedgerRepository(s.db),
	} {
		if err := r.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Repos returns repositories bound directly to the database, for reads.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Users:  newUserRepository(s.db),
		Cars:   newCarRepository(s.db),
		Ledger: newLedgerRepository(s.db),
	}
}

// InTx runs fn with repositories bound to a single transaction. The write
// commits only if fn returns nil; any error rolls back every effect.
func (s *Store) InTx(ctx context.Context, fn func(repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	repos := repository.Repos{
		Users:  newUserRepository(tx),
		Cars:   newCarRepository(tx),
		Ledger: newLedgerRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
