package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/dates"
	"fleet-admin/internal/features/drivers/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDriverRepository is a mock implementation of ports.DriverRepository
type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Driver], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Page[domain.Driver]), args.Error(1)
}

func (m *MockDriverRepository) Available(ctx context.Context) ([]domain.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Create(ctx context.Context, in domain.Input) (*domain.Driver, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Driver, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDriverRepository) ComplianceAlerts(ctx context.Context) (*domain.ComplianceAlerts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceAlerts), args.Error(1)
}

func (m *MockDriverRepository) Suspend(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDriverRepository) Reinstate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var forbidden = &apiclient.APIError{Status: http.StatusForbidden, Message: "Access denied. Manager or Safety Officer role required."}

func newService(repo *MockDriverRepository) *DriverService {
	svc := NewDriverService(repo)
	svc.now = func() time.Time { return time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC) }
	return svc
}

func offDutyQuery(page int) apiclient.ListQuery {
	return apiclient.ListQuery{
		Page:     page,
		Ordering: "last_name",
		Filters:  map[string]string{"status": "off_duty"},
	}
}

func TestDriverService_Available(t *testing.T) {
	ctx := context.Background()
	today := dates.New(2025, time.March, 10)

	t.Run("Direct", func(t *testing.T) {
		repo := new(MockDriverRepository)
		repo.On("Available", ctx).Return([]domain.Driver{{ID: 1}}, nil)

		drivers, err := newService(repo).Available(ctx)
		require.NoError(t, err)
		assert.Len(t, drivers, 1)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("ForbiddenFallsBackToList", func(t *testing.T) {
		repo := new(MockDriverRepository)
		next := "page=2"
		repo.On("Available", ctx).Return(nil, forbidden)
		repo.On("List", ctx, offDutyQuery(1)).Return(&apiclient.Page[domain.Driver]{
			Count: 3,
			Next:  &next,
			Results: []domain.Driver{
				{ID: 1, Status: domain.StatusOffDuty, LicenseExpiry: today},
				{ID: 2, Status: domain.StatusOffDuty, LicenseExpiry: today.AddDays(-1)},
			},
		}, nil)
		repo.On("List", ctx, offDutyQuery(2)).Return(&apiclient.Page[domain.Driver]{
			Count:   3,
			Results: []domain.Driver{{ID: 3, Status: domain.StatusOffDuty, LicenseExpiry: today.AddDays(200)}},
		}, nil)

		drivers, err := newService(repo).Available(ctx)
		require.NoError(t, err)
		require.Len(t, drivers, 2)
		assert.Equal(t, int64(1), drivers[0].ID)
		assert.Equal(t, int64(3), drivers[1].ID)
		repo.AssertExpectations(t)
	})

	t.Run("ListAlsoForbiddenIsEmpty", func(t *testing.T) {
		repo := new(MockDriverRepository)
		repo.On("Available", ctx).Return(nil, forbidden)
		repo.On("List", ctx, offDutyQuery(1)).Return(nil, forbidden)

		drivers, err := newService(repo).Available(ctx)
		require.NoError(t, err)
		assert.NotNil(t, drivers)
		assert.Empty(t, drivers)
	})

	t.Run("OtherErrorsPropagate", func(t *testing.T) {
		repo := new(MockDriverRepository)
		repo.On("Available", ctx).Return(nil, &apiclient.APIError{Status: http.StatusInternalServerError})

		_, err := newService(repo).Available(ctx)
		assert.True(t, apiclient.IsStatus(err, http.StatusInternalServerError))
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestDriverService_Suspend(t *testing.T) {
	ctx := context.Background()

	t.Run("OnDutyRejectedLocally", func(t *testing.T) {
		repo := new(MockDriverRepository)
		repo.On("Get", ctx, int64(7)).Return(&domain.Driver{ID: 7, Status: domain.StatusOnDuty}, nil)

		_, err := newService(repo).Suspend(ctx, 7)
		assert.ErrorIs(t, err, domain.ErrDriverOnDuty)
		repo.AssertNotCalled(t, "Suspend", mock.Anything, mock.Anything)
	})

	t.Run("ReturnsCanonicalRecord", func(t *testing.T) {
		repo := new(MockDriverRepository)
		repo.On("Get", ctx, int64(7)).Return(&domain.Driver{ID: 7, Status: domain.StatusOffDuty}, nil).Once()
		repo.On("Suspend", ctx, int64(7)).Return(nil).Once()
		repo.On("Get", ctx, int64(7)).Return(&domain.Driver{ID: 7, Status: domain.StatusSuspended}, nil).Once()

		d, err := newService(repo).Suspend(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSuspended, d.Status)
		repo.AssertExpectations(t)
	})
}

func TestDriverService_Reinstate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDriverRepository)
	repo.On("Reinstate", ctx, int64(7)).Return(nil)
	repo.On("Get", ctx, int64(7)).Return(&domain.Driver{ID: 7, Status: domain.StatusOffDuty}, nil)

	d, err := newService(repo).Reinstate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffDuty, d.Status)
}
