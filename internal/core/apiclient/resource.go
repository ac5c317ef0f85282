package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Requester is anything that can perform a backend call. *Client and
// ContextRequester satisfy it.
type Requester interface {
	Do(ctx context.Context, req Request, out any) error
}

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page exists.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// ListQuery holds the common list parameters.
type ListQuery struct {
	Page     int
	Search   string
	Ordering string
	// Filters are exact-match query parameters, e.g. status=draft.
	Filters map[string]string
}

// Values encodes the query. Empty values are dropped.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := q.Filters[k]; val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Path joins segments into a backend path with leading and trailing slashes,
// escaping each segment: Path("trips", 12, "dispatch") == "/trips/12/dispatch/".
func Path(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(fmt.Sprint(s)))
	}
	b.WriteByte('/')
	return b.String()
}

// List fetches one page of a collection.
func List[T any](ctx context.Context, r Requester, path string, q ListQuery) (*Page[T], error) {
	var page Page[T]
	if err := r.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: q.Values()}, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}

// GetList fetches an endpoint that answers with a plain JSON array.
func GetList[T any](ctx context.Context, r Requester, path string, query url.Values) ([]T, error) {
	var items []T
	if err := r.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one record.
func Get[T any](ctx context.Context, r Requester, path string) (*T, error) {
	var item T
	if err := r.Do(ctx, Request{Method: http.MethodGet, Path: path}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts body to a collection and returns the created record.
func Create[T any](ctx context.Context, r Requester, path string, body any) (*T, error) {
	var item T
	if err := r.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Patch partially updates a record and returns the server's version.
func Patch[T any](ctx context.Context, r Requester, path string, body any) (*T, error) {
	var item T
	if err := r.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a record.
func Delete(ctx context.Context, r Requester, path string) error {
	return r.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// Post calls an action endpoint. out may be nil.
func Post(ctx context.Context, r Requester, path string, body, out any) error {
	return r.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

type clientKey struct{}

// WithClient binds a session's requester to ctx.
func WithClient(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, clientKey{}, r)
}

// FromContext returns the requester bound by WithClient.
func FromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(clientKey{}).(Requester)
	return r, ok && r != nil
}

// ContextRequester forwards every call to the requester bound to the call's
// context. Feature adapters hold one so they can be built once at startup and
// still act on behalf of whichever session is serving the request.
type ContextRequester struct{}

func (ContextRequester) Do(ctx context.Context, req Request, out any) error {
	r, ok := FromContext(ctx)
	if !ok {
		return ErrNoClient
	}
	return r.Do(ctx, req, out)
}
