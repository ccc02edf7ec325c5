package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentledger/internal/domain"
)

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.signup(t, "alice")
	user, err := env.registry.RegisterUser(ctx, id, "Alice", "Smith")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "Smith", user.Surname)
	assert.Zero(t, user.Balance)
	assert.Zero(t, user.Debt)
	assert.False(t, user.Renting())

	got, err := env.registry.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterUserTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.registerUser(t, "alice", "Alice", "Smith")
	_, err := env.registry.RegisterUser(ctx, id, "Alice", "Jones")
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	// the original registration is untouched
	user, err := env.registry.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Smith", user.Surname)
}

func TestRegisterUserBlankNameRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.signup(t, "alice")
	_, err := env.registry.RegisterUser(ctx, id, "", "Smith")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.registry.RegisterUser(ctx, id, "Alice", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUserUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registry.GetUser(context.Background(), "no-such-identity")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddCar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	car := env.addCar(t, "Audi A6", 10, 50000)
	assert.Equal(t, int64(1), car.ID)
	assert.Equal(t, domain.CarStatusAvailable, car.Status)

	second := env.addCar(t, "BMW M3", 15, 60000)
	assert.Equal(t, int64(2), second.ID)

	got, err := env.registry.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Audi A6", got.Name)
	assert.Equal(t, "example url", got.ImageURL)
	assert.Equal(t, int64(10), got.RentFee)
	assert.Equal(t, int64(50000), got.SaleFee)
}

func TestAddCarNonOwnerRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.signup(t, "mallory")
	_, err := env.registry.AddCar(ctx, id, "Audi A6", "url", 10, 50000)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	count, err := env.query.CarCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddCarBlankNameRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.registry.AddCar(ctx, env.ownerID, "", "url", 10, 50000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	count, err := env.query.CarCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEditCarMetadataRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addCar(t, "Audi A6", 10, 50000)
	_, err := env.registry.EditCarMetadata(ctx, env.ownerID, 1, "Audi A7", "new example url", 20, 100000)
	require.NoError(t, err)

	car, err := env.registry.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Audi A7", car.Name)
	assert.Equal(t, "new example url", car.ImageURL)
	assert.Equal(t, int64(20), car.RentFee)
	assert.Equal(t, int64(100000), car.SaleFee)
}

func TestEditCarMetadataErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addCar(t, "Audi A6", 10, 50000)

	id := env.signup(t, "mallory")
	_, err := env.registry.EditCarMetadata(ctx, id, 1, "Audi A7", "url", 20, 100000)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = env.registry.EditCarMetadata(ctx, env.ownerID, 99, "Audi A7", "url", 20, 100000)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.registry.EditCarMetadata(ctx, env.ownerID, 1, "", "url", 20, 100000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditCarStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addCar(t, "Audi A6", 10, 50000)

	require.NoError(t, env.registry.EditCarStatus(ctx, env.ownerID, 1, domain.CarStatusUnavailable))
	car, err := env.registry.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusUnavailable, car.Status)

	require.NoError(t, env.registry.EditCarStatus(ctx, env.ownerID, 1, domain.CarStatusAvailable))
	car, err = env.registry.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusAvailable, car.Status)
}

func TestEditCarStatusRejectsRentedCar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addCar(t, "Audi A6", 10, 50000)
	renter := env.registerUser(t, "alice", "Alice", "Smith")
	require.NoError(t, env.rental.CheckOut(ctx, renter, 1))

	err := env.registry.EditCarStatus(ctx, env.ownerID, 1, domain.CarStatusUnavailable)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// forcing the rented state directly is never allowed either
	err = env.registry.EditCarStatus(ctx, env.ownerID, 1, domain.CarStatusRented)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCarsByStatusOrderedByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addCar(t, "Audi A6", 10, 50000)
	env.addCar(t, "BMW M3", 15, 60000)
	env.addCar(t, "VW Golf", 5, 20000)
	require.NoError(t, env.registry.EditCarStatus(ctx, env.ownerID, 2, domain.CarStatusUnavailable))

	available, err := env.query.CarsByStatus(ctx, domain.CarStatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, int64(1), available[0].ID)
	assert.Equal(t, int64(3), available[1].ID)

	unavailable, err := env.query.CarsByStatus(ctx, domain.CarStatusUnavailable)
	require.NoError(t, err)
	require.Len(t, unavailable, 1)
	assert.Equal(t, int64(2), unavailable[0].ID)

	count, err := env.query.CarCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
