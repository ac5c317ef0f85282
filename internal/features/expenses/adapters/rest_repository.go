package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/expenses/domain"
)

const resource = "expenses"

// RESTRepository implements ports.ExpenseRepository against /expenses/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Expense], error) {
	return apiclient.List[domain.Expense](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	return apiclient.Get[domain.Expense](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, in domain.Input) (*domain.Expense, error) {
	return apiclient.Create[domain.Expense](ctx, r.api, apiclient.Path(resource), in)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Expense, error) {
	return apiclient.Patch[domain.Expense](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}
