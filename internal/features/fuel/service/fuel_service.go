package service

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/validation"
	"fleet-admin/internal/features/fuel/domain"
	"fleet-admin/internal/features/fuel/ports"
)

// FuelService implements ports.FuelService.
type FuelService struct {
	repo ports.FuelRepository
}

// NewFuelService creates a new FuelService.
func NewFuelService(repo ports.FuelRepository) *FuelService {
	return &FuelService{repo: repo}
}

func (s *FuelService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Log], error) {
	return s.repo.List(ctx, q)
}

func (s *FuelService) Get(ctx context.Context, id int64) (*domain.Log, error) {
	return s.repo.Get(ctx, id)
}

func (s *FuelService) Create(ctx context.Context, in domain.Input) (*domain.Log, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *FuelService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Log, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *FuelService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *FuelService) Efficiency(ctx context.Context) ([]domain.Efficiency, error) {
	return s.repo.Efficiency(ctx)
}

// Estimate previews the total for a form without calling the backend.
func (s *FuelService) Estimate(in domain.Input) (*domain.Estimate, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	total, ok := in.EstimatedTotal()
	if !ok {
		return nil, &validation.Error{Fields: validation.Fields{
			validation.NonField: {"Liters and price per liter are required."},
		}}
	}
	return &domain.Estimate{TotalCost: total}, nil
}
