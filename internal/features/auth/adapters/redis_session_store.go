package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/cache"
	"fleet-admin/internal/features/auth/domain"
)

// Key layout. Each session owns exactly these three keys.
const (
	accessTokenKey  = "session:%s:access_token"
	refreshTokenKey = "session:%s:refresh_token"
	userKey         = "session:%s:user"
)

func sessionKeys(id string) (access, refresh, user string) {
	return fmt.Sprintf(accessTokenKey, id), fmt.Sprintf(refreshTokenKey, id), fmt.Sprintf(userKey, id)
}

// RedisSessionStore implements ports.SessionStore on the cache.
type RedisSessionStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisSessionStore creates a store whose keys live for ttl after the last
// login or refresh.
func NewRedisSessionStore(c cache.Cache, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		cache: c,
		ttl:   ttl,
	}
}

// Tokens returns the apiclient.TokenStore view of one session.
func (s *RedisSessionStore) Tokens(sessionID string) apiclient.TokenStore {
	return &sessionTokens{store: s, id: sessionID}
}

// SaveUser stores the user profile as JSON.
func (s *RedisSessionStore) SaveUser(ctx context.Context, sessionID string, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, _, key := sessionKeys(sessionID)
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("failed to save session user: %w", err)
	}
	return nil
}

// User loads the stored profile.
func (s *RedisSessionStore) User(ctx context.Context, sessionID string) (*domain.User, error) {
	_, _, key := sessionKeys(sessionID)

	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session user: %w", err)
	}
	return &user, nil
}

// Delete removes all keys of the session.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	access, refresh, user := sessionKeys(sessionID)
	if err := s.cache.Delete(ctx, access, refresh, user); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) get(ctx context.Context, key string) (string, error) {
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sessionTokens is the per-session apiclient.TokenStore.
type sessionTokens struct {
	store *RedisSessionStore
	id    string
}

func (t *sessionTokens) AccessToken(ctx context.Context) (string, error) {
	access, _, _ := sessionKeys(t.id)
	return t.store.get(ctx, access)
}

func (t *sessionTokens) RefreshToken(ctx context.Context) (string, error) {
	_, refresh, _ := sessionKeys(t.id)
	return t.store.get(ctx, refresh)
}

// SaveTokens writes the new pair and extends the rest of the session.
func (t *sessionTokens) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	access, refresh, user := sessionKeys(t.id)

	if err := t.store.cache.Set(ctx, access, []byte(accessToken), t.store.ttl); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}

	if refreshToken != "" {
		if err := t.store.cache.Set(ctx, refresh, []byte(refreshToken), t.store.ttl); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		return t.store.cache.Expire(ctx, t.store.ttl, user)
	}

	return t.store.cache.Expire(ctx, t.store.ttl, refresh, user)
}

func (t *sessionTokens) Clear(ctx context.Context) error {
	return t.store.Delete(ctx, t.id)
}
