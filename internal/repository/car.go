package repository

import (
	"context"

	"rentledger/internal/domain"
)

// CarRepository defines persistence operations for Car entities.
type CarRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, car *domain.Car) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	ListByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error)
	Count(ctx context.Context) (int64, error)
}
