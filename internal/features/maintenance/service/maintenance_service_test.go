package service

import (
	"context"
	"testing"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/validation"
	"fleet-admin/internal/features/maintenance/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMaintenanceRepository is a mock implementation of ports.MaintenanceRepository
type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Record], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.Page[domain.Record]), args.Error(1)
}

func (m *MockMaintenanceRepository) Get(ctx context.Context, id int64) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, in domain.Input) (*domain.Record, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockMaintenanceRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Record, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockMaintenanceRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMaintenanceRepository) Complete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestMaintenanceService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("AlreadyCompletedRejectedLocally", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		repo.On("Get", ctx, int64(2)).Return(&domain.Record{ID: 2, Status: domain.StatusCompleted}, nil)

		_, err := NewMaintenanceService(repo).Complete(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
		repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("ReturnsCanonicalRecord", func(t *testing.T) {
		repo := new(MockMaintenanceRepository)
		repo.On("Get", ctx, int64(2)).Return(&domain.Record{ID: 2, Status: domain.StatusInProgress}, nil).Once()
		repo.On("Complete", ctx, int64(2)).Return(nil).Once()
		repo.On("Get", ctx, int64(2)).Return(&domain.Record{ID: 2, Status: domain.StatusCompleted}, nil).Once()

		r, err := NewMaintenanceService(repo).Complete(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, r.Status)
		repo.AssertExpectations(t)
	})
}

func TestMaintenanceService_CreateValidates(t *testing.T) {
	repo := new(MockMaintenanceRepository)

	_, err := NewMaintenanceService(repo).Create(context.Background(), domain.Input{})
	assert.ErrorIs(t, err, validation.ErrInvalid)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
