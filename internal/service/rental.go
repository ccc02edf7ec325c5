package service

import (
	"context"
	"time"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

// RentalService drives the car and user rental states in lockstep. Each
// transition touches both rows inside one store transaction so a half-applied
// rental is never observable.
type RentalService interface {
	CheckOut(ctx context.Context, caller string, carID int64) error
	CheckIn(ctx context.Context, caller string) (*domain.User, error)
}

type rentalService struct {
	store repository.Store
	now   func() time.Time
}

func NewRentalService(store repository.Store) RentalService {
	return &rentalService{
		store: store,
		now:   time.Now,
	}
}

func (s *rentalService) CheckOut(ctx context.Context, caller string, carID int64) error {
	return s.store.InTx(ctx, func(r repository.Repos) error {
		user, err := r.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		if user.Debt > 0 {
			return domain.ErrOutstandingDebt
		}
		if user.Renting() {
			return domain.ErrAlreadyRenting
		}

		car, err := r.Cars.Get(ctx, carID)
		if err != nil {
			return err
		}
		if car.Status != domain.CarStatusAvailable {
			return domain.ErrCarNotAvailable
		}

		start := s.now().UTC()
		user.RentedCarID = car.ID
		user.RentStart = &start
		car.Status = domain.CarStatusRented
		car.RenterID = user.ID

		if err := r.Cars.Update(ctx, car); err != nil {
			return err
		}
		return r.Users.Update(ctx, user)
	})
}

func (s *rentalService) CheckIn(ctx context.Context, caller string) (*domain.User, error) {
	var user *domain.User
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.Get(ctx, caller)
		if err != nil {
			return err
		}
		if !user.Renting() {
			return domain.ErrNotRenting
		}

		car, err := r.Cars.Get(ctx, user.RentedCarID)
		if err != nil {
			return err
		}

		// flat fee per completed rental; elapsed time is display-only
		user.Debt += car.RentFee
		user.RentedCarID = 0
		user.RentStart = nil
		car.Status = domain.CarStatusAvailable
		car.RenterID = ""

		if err := r.Cars.Update(ctx, car); err != nil {
			return err
		}
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
