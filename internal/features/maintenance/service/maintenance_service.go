package service

import (
	"context"
	"fmt"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/maintenance/domain"
	"fleet-admin/internal/features/maintenance/ports"

	"go.uber.org/zap"
)

// MaintenanceService implements ports.MaintenanceService.
type MaintenanceService struct {
	repo ports.MaintenanceRepository
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(repo ports.MaintenanceRepository) *MaintenanceService {
	return &MaintenanceService{repo: repo}
}

func (s *MaintenanceService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Record], error) {
	return s.repo.List(ctx, q)
}

func (s *MaintenanceService) Get(ctx context.Context, id int64) (*domain.Record, error) {
	return s.repo.Get(ctx, id)
}

func (s *MaintenanceService) Create(ctx context.Context, in domain.Input) (*domain.Record, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *MaintenanceService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Record, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Complete closes an open job and returns the updated record. The backend
// returns the vehicle to the fleet as a side effect.
func (s *MaintenanceService) Complete(ctx context.Context, id int64) (*domain.Record, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load maintenance %d: %w", id, err)
	}
	if err := current.CanComplete(); err != nil {
		return nil, err
	}

	if err := s.repo.Complete(ctx, id); err != nil {
		return nil, err
	}

	logger.Get().Info("Maintenance completed",
		zap.Int64("maintenance_id", id),
		zap.String("vehicle", current.VehiclePlate),
	)
	return s.repo.Get(ctx, id)
}
