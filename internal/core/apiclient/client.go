// Package apiclient is the authenticated client for the fleet REST backend.
// It attaches the session's bearer token, refreshes it once when the backend
// answers 401 and parks concurrent requests behind that single refresh.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"fleet-admin/internal/core/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Auth endpoints that are called without a bearer token.
const (
	LoginPath    = "/auth/login/"
	RegisterPath = "/auth/register/"
	RefreshPath  = "/auth/token/refresh/"
)

const maxResponseBytes = 8 << 20

var publicPaths = map[string]bool{
	LoginPath:    true,
	RegisterPath: true,
	RefreshPath:  true,
}

// TokenStore persists one session's token pair. Missing values are returned
// as empty strings, not errors.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	// SaveTokens stores access and, when non-empty, refresh.
	SaveTokens(ctx context.Context, access, refresh string) error
	// Clear removes everything stored for the session.
	Clear(ctx context.Context) error
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root including the /api prefix.
	BaseURL string
	// HTTPClient performs the calls. It should carry the fixed timeout.
	HTTPClient *http.Client
	// Timeout bounds the refresh call, which outlives the request that triggered it.
	Timeout time.Duration
	// Limiter throttles outbound calls. Shared across sessions; nil disables it.
	Limiter *rate.Limiter
	// OnSessionExpired runs after a failed refresh has cleared the store.
	OnSessionExpired func(ctx context.Context, cause error)
	Logger           *zap.Logger
}

// Request is one backend call. Path is relative to BaseURL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Client talks to the backend on behalf of one session.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	store     TokenStore
	onExpired func(ctx context.Context, cause error)
	log       *zap.Logger

	mu         sync.Mutex
	refreshing bool
	generation uint64
	waiters    []chan refreshResult
}

// New creates a Client for the session behind store.
func New(opts Options, store TokenStore) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = httpClient.Timeout
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	log := opts.Logger
	if log == nil {
		log = logger.Get()
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		timeout:   timeout,
		limiter:   opts.Limiter,
		store:     store,
		onExpired: opts.OnSessionExpired,
		log:       log,
	}
}

// NewLimiter builds the outbound limiter shared by all clients. A
// non-positive rate means unlimited and returns nil.
func NewLimiter(perSecond, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = perSecond
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Do sends req and decodes a successful JSON response into out (when non-nil).
// A 401 on a protected path triggers at most one refresh and one retry.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	public := publicPaths[req.Path]

	token, gen, err := c.currentToken(ctx, public)
	if err != nil {
		return err
	}

	status, data, err := c.send(ctx, req, body, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !public {
		c.log.Debug("Access token rejected", zap.String("path", req.Path))

		token, err = c.awaitRefresh(ctx, gen)
		if err != nil {
			return err
		}

		status, data, err = c.send(ctx, req, body, token)
		if err != nil {
			return err
		}
	}

	if status >= http.StatusBadRequest {
		return parseAPIError(status, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

// currentToken reads the access token and the refresh generation. The token
// is read after the lock is released, so a refresh finishing in between can
// pair an old generation with the new token. A 401 on that token then retries
// with the same token; the single retry bounds it.
func (c *Client) currentToken(ctx context.Context, public bool) (string, uint64, error) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	if public {
		return "", gen, nil
	}

	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return "", gen, fmt.Errorf("apiclient: read access token: %w", err)
	}
	return token, gen, nil
}

// send performs one HTTP exchange. Transport failures are wrapped in ErrUnavailable.
func (c *Client) send(ctx context.Context, req Request, body []byte, token string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s %s: %w", ErrUnavailable, method, req.Path, err)
	}

	return resp.StatusCode, data, nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encode body: %w", err)
	}
	return data, nil
}
