package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rentledger/internal/auth"
	"rentledger/internal/domain"
	"rentledger/internal/payments"
	"rentledger/internal/repository/sqlite"
)

const ownerUsername = "owner"

// stubGateway records external transfers and can be told to fail.
type stubGateway struct {
	deposits   int64
	transfers  int64
	failNext   bool
	lastTarget string
}

func (g *stubGateway) ConfirmDeposit(ctx context.Context, identity string, amount int64) error {
	if g.failNext {
		g.failNext = false
		return errors.New("gateway unavailable")
	}
	g.deposits += amount
	g.lastTarget = identity
	return nil
}

func (g *stubGateway) Transfer(ctx context.Context, identity string, amount int64) error {
	if g.failNext {
		g.failNext = false
		return errors.New("gateway unavailable")
	}
	g.transfers += amount
	g.lastTarget = identity
	return nil
}

var _ payments.Gateway = (*stubGateway)(nil)

type testEnv struct {
	store      *sqlite.Store
	registry   RegistryService
	rental     RentalService
	accounting AccountingService
	query      QueryService
	accounts   auth.AccountService
	gateway    *stubGateway
	ownerID    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := sqlite.NewStore(db)
	require.NoError(t, store.Init(ctx))

	accountRepo := sqlite.NewAccountRepository(db)
	require.NoError(t, accountRepo.Init(ctx))

	accounts := auth.NewAccountService(accountRepo, "letmein")
	authz := auth.NewAuthorizer(accountRepo, ownerUsername)
	gateway := &stubGateway{}

	owner, err := accounts.Signup(ctx, ownerUsername, "ownerpass123", "letmein")
	require.NoError(t, err)

	return &testEnv{
		store:      store,
		registry:   NewRegistryService(store, authz),
		rental:     NewRentalService(store),
		accounting: NewAccountingService(store, authz, gateway),
		query:      NewQueryService(store),
		accounts:   accounts,
		gateway:    gateway,
		ownerID:    owner.ID,
	}
}

// signup creates an account and returns its identity.
func (e *testEnv) signup(t *testing.T, username string) string {
	t.Helper()
	account, err := e.accounts.Signup(context.Background(), username, "password123", "letmein")
	require.NoError(t, err)
	return account.ID
}

// registerUser creates an account plus a ledger user and returns the identity.
func (e *testEnv) registerUser(t *testing.T, username, name, surname string) string {
	t.Helper()
	id := e.signup(t, username)
	_, err := e.registry.RegisterUser(context.Background(), id, name, surname)
	require.NoError(t, err)
	return id
}

// addCar creates a car as the owner and returns it.
func (e *testEnv) addCar(t *testing.T, name string, rentFee, saleFee int64) *domain.Car {
	t.Helper()
	car, err := e.registry.AddCar(context.Background(), e.ownerID, name, "example url", rentFee, saleFee)
	require.NoError(t, err)
	return car
}
