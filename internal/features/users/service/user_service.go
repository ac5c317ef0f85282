package service

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/users/domain"
	"fleet-admin/internal/features/users/ports"

	"go.uber.org/zap"
)

// UserService implements ports.UserService.
type UserService struct {
	repo ports.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.User], error) {
	return s.repo.List(ctx, q)
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Get().Info("User created",
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in domain.Update) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Get().Info("User deleted", zap.Int64("user_id", id), zap.Int64("by", actorID))
	return nil
}
