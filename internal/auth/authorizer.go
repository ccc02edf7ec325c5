package auth

import (
	"context"
	"errors"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

// Authorizer is the single place the privileged-owner check lives. The owner
// is the account holding the configured username.
type Authorizer struct {
	accounts      repository.AccountRepository
	ownerUsername string
}

func NewAuthorizer(accounts repository.AccountRepository, ownerUsername string) *Authorizer {
	return &Authorizer{
		accounts:      accounts,
		ownerUsername: ownerUsername,
	}
}

// OwnerID resolves the owner identity, or domain.ErrNotFound when the owner
// account has not signed up yet.
func (a *Authorizer) OwnerID(ctx context.Context) (string, error) {
	account, err := a.accounts.GetByUsername(ctx, a.ownerUsername)
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

// RequireOwner returns domain.ErrNotOwner unless identity is the owner.
func (a *Authorizer) RequireOwner(ctx context.Context, identity string) error {
	ownerID, err := a.OwnerID(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotOwner
		}
		return err
	}
	if identity != ownerID {
		return domain.ErrNotOwner
	}
	return nil
}
