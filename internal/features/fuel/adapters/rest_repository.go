package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/fuel/domain"
)

const resource = "fuel"

// RESTRepository implements ports.FuelRepository against /fuel/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Log], error) {
	return apiclient.List[domain.Log](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Log, error) {
	return apiclient.Get[domain.Log](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, in domain.Input) (*domain.Log, error) {
	return apiclient.Create[domain.Log](ctx, r.api, apiclient.Path(resource), in)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Log, error) {
	return apiclient.Patch[domain.Log](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}

// Efficiency returns the report sorted by km per liter, best first.
func (r *RESTRepository) Efficiency(ctx context.Context) ([]domain.Efficiency, error) {
	return apiclient.GetList[domain.Efficiency](ctx, r.api, apiclient.Path(resource, "efficiency"), nil)
}
