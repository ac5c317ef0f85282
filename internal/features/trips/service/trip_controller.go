package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/metrics"
	"fleet-admin/internal/core/validation"
	"fleet-admin/internal/features/trips/domain"
	"fleet-admin/internal/features/trips/ports"

	"go.uber.org/zap"
)

// TripController implements ports.TripService. It only lets legal
// transitions reach the backend and never changes a trip's status itself:
// after every confirmed action the trip is reloaded from the backend.
type TripController struct {
	repo     ports.TripRepository
	vehicles ports.VehicleLookup
	drivers  ports.DriverLookup
	now      func() time.Time
}

// NewTripController creates a new TripController.
func NewTripController(repo ports.TripRepository, v ports.VehicleLookup, d ports.DriverLookup) *TripController {
	return &TripController{repo: repo, vehicles: v, drivers: d, now: time.Now}
}

func (s *TripController) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Trip], error) {
	return s.repo.List(ctx, q)
}

func (s *TripController) Get(ctx context.Context, id int64) (*domain.Trip, error) {
	return s.repo.Get(ctx, id)
}

// Create runs the advisory checks and submits a draft trip.
func (s *TripController) Create(ctx context.Context, n domain.NewTrip) (*domain.Trip, error) {
	today := dates.Of(s.now())
	if err := n.Validate(today); err != nil {
		return nil, err
	}

	vehicle, err := lookup(ctx, "vehicle", n.Vehicle, s.vehicles.Get)
	if err != nil {
		return nil, err
	}
	driver, err := lookup(ctx, "driver", n.Driver, s.drivers.Get)
	if err != nil {
		return nil, err
	}
	if err := n.CheckAssignment(vehicle, driver, today); err != nil {
		return nil, err
	}

	trip, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Trip created",
		zap.Int64("trip_id", trip.ID),
		zap.Int64("vehicle_id", n.Vehicle),
		zap.Int64("driver_id", n.Driver),
	)
	return trip, nil
}

// lookup fetches a referenced record for the advisory checks. A missing
// record is a field error; a forbidden one skips the check.
func lookup[T any](ctx context.Context, field string, id int64, get func(context.Context, int64) (*T, error)) (*T, error) {
	v, err := get(ctx, id)
	switch {
	case err == nil:
		return v, nil
	case apiclient.IsStatus(err, http.StatusNotFound):
		return nil, &validation.Error{Fields: validation.Fields{
			field: {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)},
		}}
	case apiclient.IsStatus(err, http.StatusForbidden):
		logger.Get().Debug("Skipping advisory check", zap.String("field", field), zap.Error(err))
		return nil, nil
	default:
		return nil, fmt.Errorf("service: failed to load %s %d: %w", field, id, err)
	}
}

// Update edits notes and figures of an open trip.
func (s *TripController) Update(ctx context.Context, id int64, u domain.Update) (*domain.Trip, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := current.CanEdit(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, u)
}

// Delete removes a draft or cancelled trip.
func (s *TripController) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := current.CanDelete(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TripController) Dispatch(ctx context.Context, trip *domain.Trip) error {
	return s.apply(ctx, trip, domain.ActionDispatch, func() error {
		res, err := s.repo.Dispatch(ctx, trip.ID)
		if err != nil {
			return err
		}
		logger.Get().Debug("Dispatch acknowledged",
			zap.Int64("trip_id", trip.ID),
			zap.String("vehicle_status", res.VehicleStatus),
			zap.String("driver_status", res.DriverStatus),
		)
		return nil
	})
}

func (s *TripController) Complete(ctx context.Context, trip *domain.Trip, in domain.CompleteInput) error {
	if err := trip.Can(domain.ActionComplete); err != nil {
		metrics.ObserveTransition(string(domain.ActionComplete), metrics.TransitionRejected)
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return s.apply(ctx, trip, domain.ActionComplete, func() error {
		return s.repo.Complete(ctx, trip.ID, in)
	})
}

func (s *TripController) Cancel(ctx context.Context, trip *domain.Trip) error {
	return s.apply(ctx, trip, domain.ActionCancel, func() error {
		return s.repo.Cancel(ctx, trip.ID)
	})
}

// apply checks the transition locally, sends it, and on confirmation
// replaces *trip with the reloaded record.
func (s *TripController) apply(ctx context.Context, trip *domain.Trip, a domain.Action, send func() error) error {
	action := string(a)
	log := logger.Get().With(zap.Int64("trip_id", trip.ID), zap.String("action", action))

	if err := trip.Can(a); err != nil {
		metrics.ObserveTransition(action, metrics.TransitionRejected)
		log.Info("Trip transition rejected", zap.String("status", string(trip.Status)))
		return err
	}

	if err := send(); err != nil {
		metrics.ObserveTransition(action, metrics.TransitionFailed)
		log.Warn("Trip transition failed", zap.Error(err))
		return err
	}
	metrics.ObserveTransition(action, metrics.TransitionConfirmed)

	fresh, err := s.repo.Get(ctx, trip.ID)
	if err != nil {
		log.Error("Failed to reload trip after transition", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrStale, err)
	}

	log.Info("Trip transition confirmed",
		zap.String("from", string(trip.Status)),
		zap.String("to", string(fresh.Status)),
	)
	*trip = *fresh
	return nil
}

func (s *TripController) DispatchByID(ctx context.Context, id int64) (*domain.Trip, error) {
	return s.byID(ctx, id, func(t *domain.Trip) error { return s.Dispatch(ctx, t) })
}

func (s *TripController) CompleteByID(ctx context.Context, id int64, in domain.CompleteInput) (*domain.Trip, error) {
	return s.byID(ctx, id, func(t *domain.Trip) error { return s.Complete(ctx, t, in) })
}

func (s *TripController) CancelByID(ctx context.Context, id int64) (*domain.Trip, error) {
	return s.byID(ctx, id, func(t *domain.Trip) error { return s.Cancel(ctx, t) })
}

func (s *TripController) byID(ctx context.Context, id int64, act func(*domain.Trip) error) (*domain.Trip, error) {
	trip, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := act(trip); err != nil {
		return nil, err
	}
	return trip, nil
}
