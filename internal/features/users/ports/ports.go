package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/users/domain"
)

// UserService defines the primary port for user administration.
type UserService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.User], error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, in domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, id int64, in domain.Update) (*domain.User, error)
	// Delete removes user id on behalf of actorID.
	Delete(ctx context.Context, actorID, id int64) error
}

// UserRepository defines the secondary port for user storage.
type UserRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.User], error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, in domain.NewUser) (*domain.User, error)
	Update(ctx context.Context, id int64, in domain.Update) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
