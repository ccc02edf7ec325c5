package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
	"rentledger/internal/repository/sqlite"
)

func newAccountRepo(t *testing.T) repository.AccountRepository {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewAccountRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestSignupAndAuthenticate(t *testing.T) {
	svc := NewAccountService(newAccountRepo(t), "letmein")
	ctx := context.Background()

	account, err := svc.Signup(ctx, "alice", "password123", "letmein")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Empty(t, account.PasswordHash)

	got, err := svc.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupRejections(t *testing.T) {
	svc := NewAccountService(newAccountRepo(t), "letmein")
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "password123", "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidSignupSecret)

	_, err = svc.Signup(ctx, "alice", "short", "letmein")
	assert.Error(t, err)

	_, err = svc.Signup(ctx, "alice", "password123", "letmein")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "alice", "password456", "letmein")
	assert.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestAuthorizer(t *testing.T) {
	repo := newAccountRepo(t)
	svc := NewAccountService(repo, "letmein")
	authz := NewAuthorizer(repo, "owner")
	ctx := context.Background()

	// owner account not signed up yet
	err := authz.RequireOwner(ctx, "whoever")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	owner, err := svc.Signup(ctx, "owner", "ownerpass123", "letmein")
	require.NoError(t, err)
	other, err := svc.Signup(ctx, "alice", "password123", "letmein")
	require.NoError(t, err)

	ownerID, err := authz.OwnerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)

	assert.NoError(t, authz.RequireOwner(ctx, owner.ID))
	assert.ErrorIs(t, authz.RequireOwner(ctx, other.ID), domain.ErrNotOwner)
}
