package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/dashboard/domain"
)

// RESTSource implements ports.KPISource against /dashboard/.
type RESTSource struct {
	api apiclient.Requester
}

// NewRESTSource creates a new RESTSource.
func NewRESTSource(api apiclient.Requester) *RESTSource {
	return &RESTSource{api: api}
}

func (r *RESTSource) Fetch(ctx context.Context) (*domain.KPIs, error) {
	return apiclient.Get[domain.KPIs](ctx, r.api, apiclient.Path("dashboard"))
}
