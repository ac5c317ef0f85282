package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"fleet-admin/internal/core/metrics"

	"go.uber.org/zap"
)

type refreshResult struct {
	token string
	err   error
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// awaitRefresh returns an access token to retry with after a 401 for a
// request sent with the token of generation sentGen.
//
// If a refresh is running the caller is queued behind it. If the generation
// moved since the request was sent, the current token is reused without a
// new refresh; that token may be the one the request already carried.
// Otherwise this caller performs the refresh and releases the queue in
// arrival order.
func (c *Client) awaitRefresh(ctx context.Context, sentGen uint64) (string, error) {
	c.mu.Lock()

	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		metrics.ObserveQueued()

		select {
		case r := <-ch:
			return r.token, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.generation != sentGen {
		c.mu.Unlock()
		metrics.ObserveRefresh(metrics.RefreshSkipped)

		token, err := c.store.AccessToken(ctx)
		if err != nil {
			return "", fmt.Errorf("apiclient: read access token: %w", err)
		}
		return token, nil
	}

	c.refreshing = true
	c.mu.Unlock()

	token, err := c.refresh(ctx)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	if err == nil {
		c.generation++
	}
	c.mu.Unlock()

	for _, w := range waiters {
		w <- refreshResult{token: token, err: err}
	}

	return token, err
}

// refresh exchanges the stored refresh token. It runs detached from the
// caller's cancellation because queued requests depend on its result.
func (c *Client) refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	refreshToken, err := c.store.RefreshToken(ctx)
	if err != nil {
		return "", c.expire(ctx, fmt.Errorf("read refresh token: %w", err))
	}
	if refreshToken == "" {
		return "", c.expire(ctx, ErrNoRefreshToken)
	}

	body, err := encodeBody(tokenPair{Refresh: refreshToken})
	if err != nil {
		return "", c.expire(ctx, err)
	}

	status, data, err := c.send(ctx, Request{Method: http.MethodPost, Path: RefreshPath}, body, "")
	if err != nil {
		return "", c.expire(ctx, err)
	}
	if status != http.StatusOK {
		return "", c.expire(ctx, parseAPIError(status, data))
	}

	var pair tokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return "", c.expire(ctx, fmt.Errorf("decode refresh response: %w", err))
	}
	if pair.Access == "" {
		return "", c.expire(ctx, fmt.Errorf("refresh response carried no access token"))
	}

	if err := c.store.SaveTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return "", c.expire(ctx, fmt.Errorf("persist refreshed tokens: %w", err))
	}

	metrics.ObserveRefresh(metrics.RefreshSucceeded)
	c.log.Info("Access token refreshed", zap.Bool("rotated", pair.Refresh != ""))

	return pair.Access, nil
}

// expire clears the session after an unrecoverable refresh failure.
func (c *Client) expire(ctx context.Context, cause error) error {
	metrics.ObserveRefresh(metrics.RefreshFailed)

	if err := c.store.Clear(ctx); err != nil {
		c.log.Error("Failed to clear session after refresh failure", zap.Error(err))
	}

	c.log.Warn("Token refresh failed, session cleared", zap.Error(cause))

	if c.onExpired != nil {
		c.onExpired(ctx, cause)
	}

	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}
