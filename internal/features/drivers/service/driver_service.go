package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/drivers/domain"
	"fleet-admin/internal/features/drivers/ports"

	"go.uber.org/zap"
)

// maxFallbackPages bounds the list scan used when the available endpoint is forbidden.
const maxFallbackPages = 20

// DriverService implements ports.DriverService.
type DriverService struct {
	repo ports.DriverRepository
	now  func() time.Time
}

// NewDriverService creates a new DriverService.
func NewDriverService(repo ports.DriverRepository) *DriverService {
	return &DriverService{repo: repo, now: time.Now}
}

func (s *DriverService) today() dates.Date {
	return dates.Of(s.now())
}

func (s *DriverService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Driver], error) {
	return s.repo.List(ctx, q)
}

// Available lists drivers that can take a new trip.
//
// Dispatchers are forbidden from the backend's available endpoint but may read
// the driver list, so a 403 falls back to scanning off-duty drivers and
// filtering expired licenses here. If the list is forbidden as well the
// result is empty rather than an error, so trip forms still render.
func (s *DriverService) Available(ctx context.Context) ([]domain.Driver, error) {
	drivers, err := s.repo.Available(ctx)
	if err == nil {
		return drivers, nil
	}
	if !apiclient.IsStatus(err, http.StatusForbidden) {
		return nil, err
	}

	log := logger.Get()
	log.Warn("Available drivers forbidden, falling back to driver list", zap.Error(err))

	drivers, err = s.scanAvailable(ctx)
	if err != nil {
		if apiclient.IsStatus(err, http.StatusForbidden) {
			log.Warn("Driver list forbidden, no drivers offered", zap.Error(err))
			return []domain.Driver{}, nil
		}
		return nil, err
	}
	return drivers, nil
}

func (s *DriverService) scanAvailable(ctx context.Context) ([]domain.Driver, error) {
	today := s.today()
	q := apiclient.ListQuery{
		Page:     1,
		Ordering: "last_name",
		Filters:  map[string]string{"status": string(domain.StatusOffDuty)},
	}

	available := []domain.Driver{}
	for ; q.Page <= maxFallbackPages; q.Page++ {
		page, err := s.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, d := range page.Results {
			if d.Available(today) {
				available = append(available, d)
			}
		}
		if !page.HasNext() {
			break
		}
	}
	return available, nil
}

func (s *DriverService) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the form before submitting it.
func (s *DriverService) Create(ctx context.Context, in domain.Input) (*domain.Driver, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *DriverService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Driver, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *DriverService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *DriverService) ComplianceAlerts(ctx context.Context) (*domain.ComplianceAlerts, error) {
	return s.repo.ComplianceAlerts(ctx)
}

// Suspend rejects on-duty drivers locally, then returns the updated record.
func (s *DriverService) Suspend(ctx context.Context, id int64) (*domain.Driver, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load driver %d: %w", id, err)
	}
	if err := current.CanSuspend(); err != nil {
		return nil, err
	}

	if err := s.repo.Suspend(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Reinstate puts a driver back off duty and returns the updated record.
func (s *DriverService) Reinstate(ctx context.Context, id int64) (*domain.Driver, error) {
	if err := s.repo.Reinstate(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
