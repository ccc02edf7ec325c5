package service

import (
	"context"
	"errors"
	"fmt"

	"rentledger/internal/auth"
	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

// RegistryService owns the user and car tables: self-registration, owner-only
// asset management, and the id-keyed lookups.
type RegistryService interface {
	RegisterUser(ctx context.Context, caller, name, surname string) (*domain.User, error)
	AddCar(ctx context.Context, caller, name, imageURL string, rentFee, saleFee int64) (*domain.Car, error)
	EditCarMetadata(ctx context.Context, caller string, id int64, name, imageURL string, rentFee, saleFee int64) (*domain.Car, error)
	EditCarStatus(ctx context.Context, caller string, id int64, status domain.CarStatus) error
	GetUser(ctx context.Context, caller string) (*domain.User, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
}

type registryService struct {
	store repository.Store
	authz *auth.Authorizer
}

func NewRegistryService(store repository.Store, authz *auth.Authorizer) RegistryService {
	return &registryService{
		store: store,
		authz: authz,
	}
}

func (s *registryService) RegisterUser(ctx context.Context, caller, name, surname string) (*domain.User, error) {
	if name == "" || surname == "" {
		return nil, fmt.Errorf("%w: name and surname are required", domain.ErrInvalidInput)
	}

	user := &domain.User{
		ID:      caller,
		Name:    name,
		Surname: surname,
	}

	err := s.store.InTx(ctx, func(r repository.Repos) error {
		_, err := r.Users.Get(ctx, caller)
		if err == nil {
			return domain.ErrAlreadyRegistered
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *registryService) AddCar(ctx context.Context, caller, name, imageURL string, rentFee, saleFee int64) (*domain.Car, error) {
	if err := s.authz.RequireOwner(ctx, caller); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: car name is required", domain.ErrInvalidInput)
	}
	if rentFee <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if saleFee < 0 {
		return nil, domain.ErrInvalidAmount
	}

	car := &domain.Car{
		Name:     name,
		ImageURL: imageURL,
		RentFee:  rentFee,
		SaleFee:  saleFee,
		Status:   domain.CarStatusAvailable,
	}

	err := s.store.InTx(ctx, func(r repository.Repos) error {
		_, err := r.Cars.Create(ctx, car)
		return err
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (s *registryService) EditCarMetadata(ctx context.Context, caller string, id int64, name, imageURL string, rentFee, saleFee int64) (*domain.Car, error) {
	if err := s.authz.RequireOwner(ctx, caller); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: car name is required", domain.ErrInvalidInput)
	}
	if rentFee <= 0 || saleFee < 0 {
		return nil, domain.ErrInvalidAmount
	}

	var car *domain.Car
	err := s.store.InTx(ctx, func(r repository.Repos) error {
		var err error
		car, err = r.Cars.Get(ctx, id)
		if err != nil {
			return err
		}
		car.Name = name
		car.ImageURL = imageURL
		car.RentFee = rentFee
		car.SaleFee = saleFee
		return r.Cars.Update(ctx, car)
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (s *registryService) EditCarStatus(ctx context.Context, caller string, id int64, status domain.CarStatus) error {
	if err := s.authz.RequireOwner(ctx, caller); err != nil {
		return err
	}
	// the owner may only toggle between available and unavailable; the rented
	// state is reserved for the rental state machine
	if status != domain.CarStatusAvailable && status != domain.CarStatusUnavailable {
		return domain.ErrInvalidTransition
	}

	return s.store.InTx(ctx, func(r repository.Repos) error {
		car, err := r.Cars.Get(ctx, id)
		if err != nil {
			return err
		}
		if car.Status == domain.CarStatusRented {
			return domain.ErrInvalidTransition
		}
		car.Status = status
		return r.Cars.Update(ctx, car)
	})
}

func (s *registryService) GetUser(ctx context.Context, caller string) (*domain.User, error) {
	return s.store.Repos().Users.Get(ctx, caller)
}

func (s *registryService) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	return s.store.Repos().Cars.Get(ctx, id)
}
