package service

import (
	"context"
	"fmt"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/vehicles/domain"
	"fleet-admin/internal/features/vehicles/ports"
)

// VehicleService implements ports.VehicleService.
type VehicleService struct {
	repo ports.VehicleRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(repo ports.VehicleRepository) *VehicleService {
	return &VehicleService{repo: repo}
}

func (s *VehicleService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Vehicle], error) {
	return s.repo.List(ctx, q)
}

// Available lists vehicles that can take a new trip.
func (s *VehicleService) Available(ctx context.Context) ([]domain.Vehicle, error) {
	return s.repo.Available(ctx)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the form before submitting it.
func (s *VehicleService) Create(ctx context.Context, in domain.Input) (*domain.Vehicle, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

// Update loads the current record so the odometer rule can be checked locally.
func (s *VehicleService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Vehicle, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load vehicle %d: %w", id, err)
	}
	if err := in.ValidateUpdate(*current); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Retire permanently takes a vehicle out of service and returns the updated record.
func (s *VehicleService) Retire(ctx context.Context, id int64) (*domain.Vehicle, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load vehicle %d: %w", id, err)
	}
	if err := current.CanRetire(); err != nil {
		return nil, err
	}

	if err := s.repo.Retire(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *VehicleService) ROI(ctx context.Context, id int64) (*domain.ROIReport, error) {
	return s.repo.ROI(ctx, id)
}
