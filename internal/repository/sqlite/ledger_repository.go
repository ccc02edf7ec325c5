package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"rentledger/internal/repository"
)

// The ledger table holds exactly one row: the collected-payments pool.
const createLedgerTable = `
CREATE TABLE IF NOT EXISTS ledger (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	collected_payments INTEGER NOT NULL DEFAULT 0
);
`

type LedgerRepository struct {
	db DBTX
}

func newLedgerRepository(db DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return newLedgerRepository(db)
}

func (r *LedgerRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLedgerTable); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO ledger (id, collected_payments) VALUES (1, 0)`); err != nil {
		return fmt.Errorf("seed ledger row: %w", err)
	}
	return nil
}

func (r *LedgerRepository) CollectedPayments(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT collected_payments FROM ledger WHERE id = 1`).Scan(&total); err != nil {
		return 0, fmt.Errorf("read collected payments: %w", err)
	}
	return total, nil
}

func (r *LedgerRepository) AddCollectedPayments(ctx context.Context, delta int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE ledger SET collected_payments = collected_payments + ? WHERE id = 1`, delta); err != nil {
		return fmt.Errorf("update collected payments: %w", err)
	}
	return nil
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)
