package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-admin/internal/core/apiclient"
	authdomain "fleet-admin/internal/features/auth/domain"
	"fleet-admin/internal/features/users/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{}

func (staticTokens) AccessToken(context.Context) (string, error)      { return "tok", nil }
func (staticTokens) RefreshToken(context.Context) (string, error)     { return "", nil }
func (staticTokens) SaveTokens(context.Context, string, string) error { return nil }
func (staticTokens) Clear(context.Context) error                      { return nil }

func TestRESTRepository_CreateResolvesProfile(t *testing.T) {
	var created domain.NewUser
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/users/":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"username":"priya","email":"priya@fleet.example","role":"dispatcher"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/users/":
			assert.Equal(t, "priya", r.URL.Query().Get("search"))
			_, _ = w.Write([]byte(`{"count":2,"next":null,"previous":null,"results":[
				{"id":7,"username":"priya.k","role":"analyst"},
				{"id":8,"username":"priya","role":"dispatcher","role_display":"Dispatcher"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	repo := NewRESTRepository(apiclient.New(apiclient.Options{BaseURL: server.URL, HTTPClient: server.Client()}, staticTokens{}))
	u, err := repo.Create(context.Background(), domain.NewUser{
		Username: "priya", Email: "priya@fleet.example", Password: "s3cretpass", Role: authdomain.RoleDispatcher,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.ID)
	assert.Equal(t, "Dispatcher", u.RoleDisplay)
	assert.Equal(t, "s3cretpass", created.Password)
}
