package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/core/validation"
	drivers "fleet-admin/internal/features/drivers/domain"
	"fleet-admin/internal/features/trips/domain"
	vehicles "fleet-admin/internal/features/vehicles/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTripRepository is a mock implementation of ports.TripRepository
type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Trip], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Page[domain.Trip]), args.Error(1)
}

func (m *MockTripRepository) Get(ctx context.Context, id int64) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) Create(ctx context.Context, n domain.NewTrip) (*domain.Trip, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) Update(ctx context.Context, id int64, u domain.Update) (*domain.Trip, error) {
	args := m.Called(ctx, id, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTripRepository) Dispatch(ctx context.Context, id int64) (*domain.DispatchResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DispatchResult), args.Error(1)
}

func (m *MockTripRepository) Complete(ctx context.Context, id int64, in domain.CompleteInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockTripRepository) Cancel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockVehicleLookup is a mock implementation of ports.VehicleLookup
type MockVehicleLookup struct {
	mock.Mock
}

func (m *MockVehicleLookup) Get(ctx context.Context, id int64) (*vehicles.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicles.Vehicle), args.Error(1)
}

// MockDriverLookup is a mock implementation of ports.DriverLookup
type MockDriverLookup struct {
	mock.Mock
}

func (m *MockDriverLookup) Get(ctx context.Context, id int64) (*drivers.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drivers.Driver), args.Error(1)
}

var today = dates.New(2025, time.March, 10)

type fixture struct {
	repo     *MockTripRepository
	vehicles *MockVehicleLookup
	drivers  *MockDriverLookup
	ctrl     *TripController
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(MockTripRepository),
		vehicles: new(MockVehicleLookup),
		drivers:  new(MockDriverLookup),
	}
	f.ctrl = NewTripController(f.repo, f.vehicles, f.drivers)
	f.ctrl.now = func() time.Time { return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC) }
	return f
}

func (f *fixture) assertNoBackendAction(t *testing.T) {
	t.Helper()
	f.repo.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func draftForm(weight int64) domain.NewTrip {
	return domain.NewTrip{
		Vehicle:       3,
		Driver:        4,
		Origin:        "Pune",
		Destination:   "Mumbai",
		ScheduledDate: today,
		CargoWeightKg: decimal.NewFromInt(weight),
	}
}

func TestTripController_Create_Capacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.vehicles.On("Get", ctx, int64(3)).Return(&vehicles.Vehicle{
		ID: 3, LicensePlate: "MH-12", CapacityKg: decimal.NewFromInt(2000), Status: vehicles.StatusAvailable,
	}, nil)
	f.drivers.On("Get", ctx, int64(4)).Return(&drivers.Driver{
		ID: 4, FullName: "Ana Ruiz", Status: drivers.StatusOffDuty, LicenseExpiry: today.AddDays(365),
	}, nil)

	_, err := f.ctrl.Create(ctx, draftForm(2500))
	require.ErrorIs(t, err, validation.ErrInvalid)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	accepted := draftForm(1500)
	f.repo.On("Create", ctx, accepted).Return(&domain.Trip{ID: 12, Status: domain.StatusDraft}, nil).Once()

	trip, err := f.ctrl.Create(ctx, accepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, trip.Status)
	f.repo.AssertExpectations(t)
}

func TestTripController_Create_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("PastDateRejectedBeforeLookups", func(t *testing.T) {
		f := newFixture()
		form := draftForm(10)
		form.ScheduledDate = today.AddDays(-1)

		_, err := f.ctrl.Create(ctx, form)
		assert.ErrorIs(t, err, validation.ErrInvalid)
		f.vehicles.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("MissingVehicleIsFieldError", func(t *testing.T) {
		f := newFixture()
		f.vehicles.On("Get", ctx, int64(3)).Return(nil, &apiclient.APIError{Status: http.StatusNotFound})

		_, err := f.ctrl.Create(ctx, draftForm(10))
		fields, ok := validation.FieldsOf(err)
		require.True(t, ok)
		assert.Equal(t, []string{`Invalid pk "3" - object does not exist.`}, fields["vehicle"])
	})

	t.Run("ForbiddenLookupSkipsCheck", func(t *testing.T) {
		f := newFixture()
		form := draftForm(10)
		f.vehicles.On("Get", ctx, int64(3)).Return(&vehicles.Vehicle{CapacityKg: decimal.NewFromInt(100), Status: vehicles.StatusAvailable}, nil)
		f.drivers.On("Get", ctx, int64(4)).Return(nil, &apiclient.APIError{Status: http.StatusForbidden})
		f.repo.On("Create", ctx, form).Return(&domain.Trip{ID: 1, Status: domain.StatusDraft}, nil)

		_, err := f.ctrl.Create(ctx, form)
		require.NoError(t, err)
	})

	t.Run("SuspendedDriver", func(t *testing.T) {
		f := newFixture()
		f.vehicles.On("Get", ctx, int64(3)).Return(&vehicles.Vehicle{CapacityKg: decimal.NewFromInt(100), Status: vehicles.StatusAvailable}, nil)
		f.drivers.On("Get", ctx, int64(4)).Return(&drivers.Driver{FullName: "Ana Ruiz", Status: drivers.StatusSuspended, LicenseExpiry: today}, nil)

		_, err := f.ctrl.Create(ctx, draftForm(10))
		fields, ok := validation.FieldsOf(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Driver Ana Ruiz is suspended."}, fields[validation.NonField])
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTripController_DraftCannotComplete(t *testing.T) {
	f := newFixture()
	trip := &domain.Trip{ID: 12, Status: domain.StatusDraft}
	before := *trip

	distance := decimal.NewFromInt(150)
	err := f.ctrl.Complete(context.Background(), trip, domain.CompleteInput{DistanceKm: &distance})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, before, *trip)
	f.assertNoBackendAction(t)
}

func TestTripController_TerminalTripsRejectEverything(t *testing.T) {
	ctx := context.Background()
	for _, status := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		f := newFixture()
		trip := &domain.Trip{ID: 1, Status: status}

		assert.ErrorIs(t, f.ctrl.Dispatch(ctx, trip), domain.ErrInvalidTransition)
		assert.ErrorIs(t, f.ctrl.Complete(ctx, trip, domain.CompleteInput{}), domain.ErrInvalidTransition)
		assert.ErrorIs(t, f.ctrl.Cancel(ctx, trip), domain.ErrInvalidTransition)
		assert.Equal(t, status, trip.Status)
		f.assertNoBackendAction(t)
	}
}

func TestTripController_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("StatusComesFromServer", func(t *testing.T) {
		f := newFixture()
		trip := &domain.Trip{ID: 12, Status: domain.StatusDraft, Notes: "stale copy"}

		f.repo.On("Dispatch", ctx, int64(12)).Return(&domain.DispatchResult{
			Message: "Trip dispatched successfully.", VehicleStatus: "on_trip", DriverStatus: "on_duty",
		}, nil)
		f.repo.On("Get", ctx, int64(12)).Return(&domain.Trip{
			ID:            12,
			Status:        domain.StatusDispatched,
			StatusDisplay: "Dispatched",
			VehicleInfo:   &domain.VehicleInfo{ID: 3, Status: "on_trip"},
		}, nil)

		require.NoError(t, f.ctrl.Dispatch(ctx, trip))
		assert.Equal(t, domain.StatusDispatched, trip.Status)
		assert.Equal(t, "Dispatched", trip.StatusDisplay)
		assert.Equal(t, "on_trip", trip.VehicleInfo.Status)
		assert.Empty(t, trip.Notes)
	})

	t.Run("ServerRejectionLeavesTripUnchanged", func(t *testing.T) {
		f := newFixture()
		trip := &domain.Trip{ID: 12, Status: domain.StatusDraft}
		before := *trip

		f.repo.On("Dispatch", ctx, int64(12)).Return(nil, &apiclient.APIError{
			Status: http.StatusBadRequest, Message: "Driver Ana Ruiz is suspended. Cannot assign.",
		})

		err := f.ctrl.Dispatch(ctx, trip)
		assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))
		assert.Equal(t, before, *trip)
		f.repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("ReloadFailureIsStale", func(t *testing.T) {
		f := newFixture()
		trip := &domain.Trip{ID: 12, Status: domain.StatusDraft}

		f.repo.On("Dispatch", ctx, int64(12)).Return(&domain.DispatchResult{}, nil)
		f.repo.On("Get", ctx, int64(12)).Return(nil, errors.New("connection reset"))

		err := f.ctrl.Dispatch(ctx, trip)
		assert.ErrorIs(t, err, domain.ErrStale)
		assert.Equal(t, domain.StatusDraft, trip.Status)
	})
}

func TestTripController_CompleteByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	revenue := decimal.RequireFromString("1200.50")
	in := domain.CompleteInput{Revenue: &revenue}

	f.repo.On("Get", ctx, int64(12)).Return(&domain.Trip{ID: 12, Status: domain.StatusDispatched}, nil).Once()
	f.repo.On("Complete", ctx, int64(12), in).Return(nil).Once()
	f.repo.On("Get", ctx, int64(12)).Return(&domain.Trip{
		ID: 12, Status: domain.StatusCompleted, Revenue: revenue, CompletedDate: today,
	}, nil).Once()

	trip, err := f.ctrl.CompleteByID(ctx, 12, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, trip.Status)
	assert.Equal(t, today, trip.CompletedDate)
	f.repo.AssertExpectations(t)
}

func TestTripController_CancelByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.repo.On("Get", ctx, int64(5)).Return(&domain.Trip{ID: 5, Status: domain.StatusCompleted}, nil).Once()

	_, err := f.ctrl.CancelByID(ctx, 5)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Cannot cancel a completed trip.", te.Message())
	f.repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestTripController_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	notes := "delivered late"

	t.Run("ClosedTripNotEditable", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, int64(1)).Return(&domain.Trip{ID: 1, Status: domain.StatusCancelled}, nil)

		_, err := f.ctrl.Update(ctx, 1, domain.Update{Notes: &notes})
		assert.ErrorIs(t, err, domain.ErrTripClosed)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OpenTripEditable", func(t *testing.T) {
		f := newFixture()
		u := domain.Update{Notes: &notes}
		f.repo.On("Get", ctx, int64(1)).Return(&domain.Trip{ID: 1, Status: domain.StatusDispatched}, nil)
		f.repo.On("Update", ctx, int64(1), u).Return(&domain.Trip{ID: 1, Status: domain.StatusDispatched, Notes: notes}, nil)

		trip, err := f.ctrl.Update(ctx, 1, u)
		require.NoError(t, err)
		assert.Equal(t, notes, trip.Notes)
	})

	t.Run("DispatchedTripNotDeletable", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, int64(1)).Return(&domain.Trip{ID: 1, Status: domain.StatusDispatched}, nil)

		assert.ErrorIs(t, f.ctrl.Delete(ctx, 1), domain.ErrTripActive)
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("DraftDeletable", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Get", ctx, int64(1)).Return(&domain.Trip{ID: 1, Status: domain.StatusDraft}, nil)
		f.repo.On("Delete", ctx, int64(1)).Return(nil)

		assert.NoError(t, f.ctrl.Delete(ctx, 1))
	})
}
