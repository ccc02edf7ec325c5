package repository

import "context"

// Repos bundles the ledger's table repositories. Inside a transaction all
// three are bound to the same underlying tx.
type Repos struct {
	Users  UserRepository
	Cars   CarRepository
	Ledger LedgerRepository
}

// Store is the ledger's single source of truth. InTx applies fn as one
// serialized atomic step: mutating operations never interleave, and a
// returned error rolls every write back.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}
