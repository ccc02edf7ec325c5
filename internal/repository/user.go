package repository

import (
	"context"

	"rentledger/internal/domain"
)

// UserRepository defines persistence operations for ledger User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SumBalances(ctx context.Context) (int64, error)
}
