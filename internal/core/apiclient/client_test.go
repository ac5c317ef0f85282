package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	clears  int
}

func (s *memoryStore) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, nil
}

func (s *memoryStore) RefreshToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, nil
}

func (s *memoryStore) SaveTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	s.clears++
	return nil
}

func (s *memoryStore) snapshot() (string, string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh, s.clears
}

// fakeBackend accepts "Bearer <valid>" on /trips/ and rotates tokens on refresh.
type fakeBackend struct {
	valid        atomic.Value
	refreshCalls atomic.Int32
	tripCalls    atomic.Int32
	// refreshGate, when set, blocks the refresh handler until closed.
	refreshGate    chan struct{}
	refreshStarted chan struct{}
	refreshStatus  int
}

func newFakeBackend(valid string) *fakeBackend {
	b := &fakeBackend{refreshStatus: http.StatusOK}
	b.valid.Store(valid)
	return b
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case RefreshPath:
		n := b.refreshCalls.Add(1)
		if b.refreshStarted != nil && n == 1 {
			close(b.refreshStarted)
		}
		if b.refreshGate != nil {
			<-b.refreshGate
		}
		if b.refreshStatus != http.StatusOK {
			w.WriteHeader(b.refreshStatus)
			w.Write([]byte(`{"detail":"Token is invalid or expired","code":"token_not_valid"}`))
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh"] != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
			return
		}
		b.valid.Store("access-2")
		w.Write([]byte(`{"access":"access-2","refresh":"refresh-2"}`))

	case "/trips/":
		b.tripCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+b.valid.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":7}]}`))

	case LoginPath:
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"access":"access-1","refresh":"refresh-1"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	}
}

type tripRow struct {
	ID int `json:"id"`
}

func newTestClient(url string, store TokenStore, onExpired func(context.Context, error)) *Client {
	return New(Options{
		BaseURL:          url,
		HTTPClient:       &http.Client{Timeout: 2 * time.Second},
		Timeout:          2 * time.Second,
		OnSessionExpired: onExpired,
	}, store)
}

func TestClient_AttachesBearer(t *testing.T) {
	backend := newFakeBackend("access-1")
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	client := newTestClient(server.URL, store, nil)

	page, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 7, page.Results[0].ID)
	assert.Equal(t, int32(0), backend.refreshCalls.Load())
}

func TestClient_LoginCarriesNoBearer(t *testing.T) {
	backend := newFakeBackend("access-1")
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "stale", refresh: "stale"}
	client := newTestClient(server.URL, store, nil)

	var pair tokenPair
	err := Post(context.Background(), client, LoginPath, map[string]string{"username": "u", "password": "p"}, &pair)
	require.NoError(t, err)
	assert.Equal(t, "access-1", pair.Access)
}

func TestClient_RefreshesOnceAndRetries(t *testing.T) {
	backend := newFakeBackend("access-2")
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	client := newTestClient(server.URL, store, nil)

	page, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)

	access, refresh, clears := store.snapshot()
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-2", refresh)
	assert.Zero(t, clears)
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(2), backend.tripCalls.Load())
}

func TestClient_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	backend := newFakeBackend("access-2")
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	client := newTestClient(server.URL, store, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = List[tripRow](context.Background(), client, "/trips/", ListQuery{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
}

func TestClient_QueuedRequestsResumeAfterRefresh(t *testing.T) {
	backend := newFakeBackend("access-2")
	backend.refreshGate = make(chan struct{})
	backend.refreshStarted = make(chan struct{})
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	client := newTestClient(server.URL, store, nil)

	results := make(chan error, 3)
	run := func() {
		_, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
		results <- err
	}

	go run()
	select {
	case <-backend.refreshStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never started")
	}

	go run()
	go run()

	assert.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.waiters) == 2
	}, 2*time.Second, 5*time.Millisecond)

	close(backend.refreshGate)

	for i := 0; i < 3; i++ {
		assert.NoError(t, <-results)
	}
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Empty(t, client.waiters)
}

func TestClient_RefreshFailureExpiresSession(t *testing.T) {
	backend := newFakeBackend("access-2")
	backend.refreshStatus = http.StatusUnauthorized
	backend.refreshGate = make(chan struct{})
	backend.refreshStarted = make(chan struct{})
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	var hookCalls atomic.Int32
	client := newTestClient(server.URL, store, func(ctx context.Context, cause error) {
		hookCalls.Add(1)
	})

	results := make(chan error, 2)
	run := func() {
		_, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
		results <- err
	}

	go run()
	<-backend.refreshStarted
	go run()

	assert.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return len(client.waiters) == 1
	}, 2*time.Second, 5*time.Millisecond)

	close(backend.refreshGate)

	for i := 0; i < 2; i++ {
		err := <-results
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.True(t, IsStatus(err, http.StatusUnauthorized))
	}

	access, refresh, clears := store.snapshot()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Equal(t, 1, clears)
	assert.Equal(t, int32(1), hookCalls.Load())
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
}

func TestClient_MissingRefreshTokenExpiresWithoutCall(t *testing.T) {
	backend := newFakeBackend("access-2")
	server := httptest.NewServer(backend)
	defer server.Close()

	store := &memoryStore{access: "access-1"}
	client := newTestClient(server.URL, store, nil)

	_, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Equal(t, int32(0), backend.refreshCalls.Load())
}

func TestClient_SecondUnauthorizedIsNotRetried(t *testing.T) {
	backend := newFakeBackend("never-valid")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			backend.refreshCalls.Add(1)
			w.Write([]byte(`{"access":"access-2"}`))
			return
		}
		backend.tripCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
	}))
	defer server.Close()

	store := &memoryStore{access: "access-1", refresh: "refresh-1"}
	client := newTestClient(server.URL, store, nil)

	_, err := List[tripRow](context.Background(), client, "/trips/", ListQuery{})
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, int32(1), backend.refreshCalls.Load())
	assert.Equal(t, int32(2), backend.tripCalls.Load())

	_, refresh, _ := store.snapshot()
	assert.Equal(t, "refresh-1", refresh, "refresh token kept when the response does not rotate it")
}

func TestClient_ErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		notify  string
	}{
		{"Forbidden", http.StatusForbidden, `{"detail":"You do not have permission to perform this action."}`, "You do not have permission to perform this action.", "You do not have permission to perform this action."},
		{"Validation", http.StatusBadRequest, `{"license_plate":["vehicle with this license plate already exists."]}`, "", MsgFieldErrors},
		{"SemanticError", http.StatusBadRequest, `{"error":"Only draft trips can be dispatched."}`, "Only draft trips can be dispatched.", "Only draft trips can be dispatched."},
		{"NotFound", http.StatusNotFound, `{"detail":"Not found."}`, "Not found.", MsgNotFound},
		{"ServerError", http.StatusInternalServerError, `<html>boom</html>`, "", MsgServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, &memoryStore{access: "a", refresh: "r"}, nil)
			_, err := Get[tripRow](context.Background(), client, "/trips/1/")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.notify, Notify(err))
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestClient_NetworkFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(url, &memoryStore{access: "a"}, nil)
	_, err := Get[tripRow](context.Background(), client, "/trips/1/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, MsgUnavailable, Notify(err))
}

func TestClient_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New(Options{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
	}, &memoryStore{access: "a"})

	_, err := Get[tripRow](context.Background(), client, "/trips/1/")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_LimiterHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	client := New(Options{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Limiter:    NewLimiter(1, 1),
	}, &memoryStore{access: "a"})

	_, err := Get[tripRow](context.Background(), client, "/trips/1/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = Get[tripRow](ctx, client, "/trips/1/")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 10))
	l := NewLimiter(5, 0)
	require.NotNil(t, l)
	assert.Equal(t, 5, l.Burst())
}
