package service

import (
	"context"

	"rentledger/internal/auth"
	"rentledger/internal/domain"
	"rentledger/internal/payments"
	"rentledger/internal/repository"
)

// AccountingService moves value between user balances, user debts, the
// collected-payments pool, and the external world.
type AccountingService interface {
	Deposit(ctx context.Context, caller string, amount int64) (*domain.User, error)
	MakePayment(ctx context.Context, caller string) (*domain.User, error)
	WithdrawBalance(ctx context.Context, caller string, amount int64) (*domain.User, error)
	WithdrawOwnerBalance(ctx context.Context, caller string, amount int64) (int64, error)
	TotalPayments(ctx context.Context, caller string) (int64, error)
	TotalHeldValue(ctx context.Context) (int64, error)
}

type accountingService struct {
	store   repository.Store
	authz   *auth.Authorizer
	gateway payments.Gateway
}

func NewAccountingService(store repository.Store, authz *auth.Authorizer, gateway payments.Gateway) AccountingService {
	return &accountingService{
		store:   store,
		authz:   authz,
		gateway: gateway,
	}
}

func (s *accountingService) Deposit(ctx context.Context, caller string, amount int64) (*domain.User, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	// reject unknown users before asking the gateway to collect anything
	if _, err := s.store.Repos().Users.Get(ctx, caller); err != nil {
		return nil, err
	}
	if err := s.gateway.ConfirmDeposit(ctx, caller, amount); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		user.Balance += amount
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountingService) MakePayment(ctx context.Context, caller string) (*domain.User, error) {
	var user *domain.User
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		if user.Debt == 0 {
			return domain.ErrNoDebt
		}
		if user.Balance < user.Debt {
			return domain.ErrInsufficientBalance
		}

		settled := user.Debt
		user.Balance -= settled
		user.Debt = 0
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return r.Ledger.AddCollectedPayments(ctx, settled)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountingService) WithdrawBalance(ctx context.Context, caller string, amount int64) (*domain.User, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var user *domain.User
	// the debit and the outbound transfer commit together: a gateway failure
	// rolls the debit back
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		if amount > user.Balance {
			return domain.ErrInsufficientBalance
		}
		user.Balance -= amount
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return s.gateway.Transfer(ctx, caller, amount)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountingService) WithdrawOwnerBalance(ctx context.Context, caller string, amount int64) (int64, error) {
	if err := s.authz.RequireOwner(ctx, caller); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	var remaining int64
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		pool, err := r.Ledger.CollectedPayments(ctx)
		if err != nil {
			return err
		}
		if amount > pool {
			return domain.ErrInsufficientPool
		}
		if err := r.Ledger.AddCollectedPayments(ctx, -amount); err != nil {
			return err
		}
		remaining = pool - amount
		return s.gateway.Transfer(ctx, caller, amount)
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (s *accountingService) TotalPayments(ctx context.Context, caller string) (int64, error) {
	if err := s.authz.RequireOwner(ctx, caller); err != nil {
		return 0, err
	}
	return s.store.Repos().Ledger.CollectedPayments(ctx)
}

// TotalHeldValue is the consistency check: every unit the ledger holds is
// either some user's balance or part of the collected-payments pool.
func (s *accountingService) TotalHeldValue(ctx context.Context) (int64, error) {
	repos := s.store.Repos()
	balances, err := repos.Users.SumBalances(ctx)
	if err != nil {
		return 0, err
	}
	pool, err := repos.Ledger.CollectedPayments(ctx)
	if err != nil {
		return 0, err
	}
	return balances + pool, nil
}
