package service

import (
	"context"

	"rentledger/internal/domain"
	"rentledger/internal/repository"
)

// QueryService is the read-only projection surface used by presentation code.
// Results are recomputed per call so they always reflect the latest mutation.
type QueryService interface {
	CarsByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error)
	CarCount(ctx context.Context) (int64, error)
}

type queryService struct {
	store repository.Store
}

func NewQueryService(store repository.Store) QueryService {
	return &queryService{store: store}
}

func (s *queryService) CarsByStatus(ctx context.Context, status domain.CarStatus) ([]domain.Car, error) {
	return s.store.Repos().Cars.ListByStatus(ctx, status)
}

func (s *queryService) CarCount(ctx context.Context) (int64, error) {
	return s.store.Repos().Cars.Count(ctx)
}
