package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/users/domain"
)

const resource = "users"

// RESTRepository implements ports.UserRepository against /users/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.User], error) {
	return apiclient.List[domain.User](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	return apiclient.Get[domain.User](ctx, r.api, apiclient.Path(resource, id))
}

// Create posts the form. The create response omits id and role_display,
// so the stored profile is then found by username.
func (r *RESTRepository) Create(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	created, err := apiclient.Create[domain.User](ctx, r.api, apiclient.Path(resource), in)
	if err != nil {
		return nil, err
	}

	page, err := r.List(ctx, apiclient.ListQuery{Search: in.Username})
	if err != nil {
		return created, nil
	}
	for i := range page.Results {
		if page.Results[i].Username == in.Username {
			return &page.Results[i], nil
		}
	}
	return created, nil
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Update) (*domain.User, error) {
	return apiclient.Patch[domain.User](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}
