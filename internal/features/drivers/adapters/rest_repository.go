package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/drivers/domain"
)

const resource = "drivers"

// RESTRepository implements ports.DriverRepository against /drivers/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Driver], error) {
	return apiclient.List[domain.Driver](ctx, r.api, apiclient.Path(resource), q)
}

// Available returns a bare array. The backend restricts it to managers and
// safety officers.
func (r *RESTRepository) Available(ctx context.Context) ([]domain.Driver, error) {
	return apiclient.GetList[domain.Driver](ctx, r.api, apiclient.Path(resource, "available"), nil)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	return apiclient.Get[domain.Driver](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, in domain.Input) (*domain.Driver, error) {
	return apiclient.Create[domain.Driver](ctx, r.api, apiclient.Path(resource), in)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Driver, error) {
	return apiclient.Patch[domain.Driver](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) ComplianceAlerts(ctx context.Context) (*domain.ComplianceAlerts, error) {
	return apiclient.Get[domain.ComplianceAlerts](ctx, r.api, apiclient.Path(resource, "compliance-alerts"))
}

func (r *RESTRepository) Suspend(ctx context.Context, id int64) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, "suspend"), nil, nil)
}

func (r *RESTRepository) Reinstate(ctx context.Context, id int64) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, "reinstate"), nil, nil)
}
