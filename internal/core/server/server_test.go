package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleet-admin/internal/core/config"
	"fleet-admin/internal/core/httpapi"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg, nil)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
}

func TestHealthz(t *testing.T) {
	logger.Init("development", "error")

	t.Run("Healthy", func(t *testing.T) {
		srv := New(&config.AppConfig{}, pingFunc(func(context.Context) error { return nil }))

		resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RedisDown", func(t *testing.T) {
		srv := New(&config.AppConfig{}, pingFunc(func(context.Context) error { return errors.New("connection refused") }))

		resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
	})
}

func TestNotFoundUsesErrorShape(t *testing.T) {
	logger.Init("development", "error")
	srv := New(&config.AppConfig{}, nil)

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body httpapi.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, resp.Header.Get("X-Ray-ID"), body.RayID)
	assert.NotEmpty(t, body.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	logger.Init("development", "error")
	metrics.Init()
	metrics.ObserveRefresh(metrics.RefreshSucceeded)
	srv := New(&config.AppConfig{}, nil)

	resp, err := srv.App.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fleet_token_refresh_total")
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	// Privileged port 1 should fail
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg, nil)

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.App.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}
