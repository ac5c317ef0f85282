package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/auth/domain"
	"fleet-admin/internal/features/auth/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientFactory builds the API client for one session.
type ClientFactory func(store apiclient.TokenStore, onExpired func(ctx context.Context, cause error)) *apiclient.Client

// SessionManager implements ports.SessionService. It keeps one API client per
// live session so that concurrent requests of a session share a refresh gate.
type SessionManager struct {
	backend   ports.Backend
	store     ports.SessionStore
	newClient ClientFactory

	mu      sync.Mutex
	clients map[string]*sessionClient
}

type sessionClient struct {
	client   *apiclient.Client
	lastUsed time.Time
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(backend ports.Backend, store ports.SessionStore, newClient ClientFactory) *SessionManager {
	return &SessionManager{
		backend:   backend,
		store:     store,
		newClient: newClient,
		clients:   make(map[string]*sessionClient),
	}
}

// Login authenticates against the backend and opens a new session.
func (m *SessionManager) Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	tokens := m.store.Tokens(id)
	client := m.clientFor(id)

	res, err := m.backend.Login(apiclient.WithClient(ctx, client), creds)
	if err != nil {
		m.evict(id)
		return nil, err
	}

	if err := tokens.SaveTokens(ctx, res.Access, res.Refresh); err != nil {
		m.evict(id)
		return nil, fmt.Errorf("service: failed to store tokens: %w", err)
	}

	user := res.User
	claims, claimsErr := domain.ParseClaims(res.Access)
	if claimsErr == nil && user.Role == "" {
		user.Role = claims.Role
	}
	if user.RoleDisplay == "" {
		user.RoleDisplay = user.Role.Display()
	}

	if err := m.store.SaveUser(ctx, id, &user); err != nil {
		m.evict(id)
		_ = m.store.Delete(ctx, id)
		return nil, fmt.Errorf("service: failed to store user: %w", err)
	}

	logger.ForSession(id).Info("Session opened",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	session := &domain.Session{ID: id, User: user}
	if claimsErr == nil {
		session.AccessExpiresAt = claims.Expiry()
	}
	return session, nil
}

// Register creates an account without opening a session.
func (m *SessionManager) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	client := m.newClient(anonymousTokens{}, nil)
	user, err := m.backend.Register(apiclient.WithClient(ctx, client), reg)
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Account registered", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Logout asks the backend to blacklist the refresh token, then always clears
// the local session whatever the backend answered.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	log := logger.ForSession(sessionID)

	refresh, err := m.store.Tokens(sessionID).RefreshToken(ctx)
	if err != nil {
		log.Warn("Failed to read refresh token on logout", zap.Error(err))
	}

	if refresh != "" {
		client := m.clientFor(sessionID)
		if err := m.backend.Logout(apiclient.WithClient(ctx, client), refresh); err != nil {
			log.Warn("Backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}

	m.evict(sessionID)

	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("service: failed to delete session: %w", err)
	}

	log.Info("Session closed")
	return nil
}

// Resolve returns the stored session and its client. After a restart the
// client is rebuilt from the stored tokens.
func (m *SessionManager) Resolve(ctx context.Context, sessionID string) (*domain.Session, apiclient.Requester, error) {
	if sessionID == "" {
		return nil, nil, domain.ErrSessionNotFound
	}

	user, err := m.store.User(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.evict(sessionID)
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("service: failed to load session: %w", err)
	}

	return &domain.Session{ID: sessionID, User: *user}, m.clientFor(sessionID), nil
}

// Describe resolves the session and decodes the access token expiry.
func (m *SessionManager) Describe(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, _, err := m.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	access, err := m.store.Tokens(sessionID).AccessToken(ctx)
	if err != nil || access == "" {
		return session, nil
	}
	if claims, err := domain.ParseClaims(access); err == nil {
		session.AccessExpiresAt = claims.Expiry()
	}
	return session, nil
}

// Me fetches the profile and refreshes the stored copy.
func (m *SessionManager) Me(ctx context.Context, sessionID string) (*domain.User, error) {
	user, err := m.backend.Me(ctx)
	if err != nil {
		return nil, err
	}
	m.saveProfile(ctx, sessionID, user)
	return user, nil
}

// UpdateMe patches the profile and refreshes the stored copy.
func (m *SessionManager) UpdateMe(ctx context.Context, sessionID string, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := m.backend.UpdateMe(ctx, upd)
	if err != nil {
		return nil, err
	}
	m.saveProfile(ctx, sessionID, user)
	return user, nil
}

// ChangePassword validates locally before submitting.
func (m *SessionManager) ChangePassword(ctx context.Context, pc domain.PasswordChange) error {
	if err := pc.Validate(); err != nil {
		return err
	}
	return m.backend.ChangePassword(ctx, pc)
}

// Expire is called by a session's client after its refresh failed. The
// client has already cleared the stored session.
func (m *SessionManager) Expire(sessionID string, cause error) {
	m.evict(sessionID)
	logger.ForSession(sessionID).Warn("Session expired, sign-in required", zap.Error(cause))
}

// Sweep drops clients idle for longer than idle. They are rebuilt on demand.
func (m *SessionManager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, sc := range m.clients {
		if sc.lastUsed.Before(cutoff) {
			delete(m.clients, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *SessionManager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				logger.Get().Debug("Idle session clients dropped", zap.Int("count", n))
			}
		}
	}
}

// ActiveClients reports how many session clients are cached.
func (m *SessionManager) ActiveClients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

func (m *SessionManager) clientFor(sessionID string) *apiclient.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sc, ok := m.clients[sessionID]; ok {
		sc.lastUsed = time.Now()
		return sc.client
	}

	client := m.newClient(m.store.Tokens(sessionID), func(ctx context.Context, cause error) {
		m.Expire(sessionID, cause)
	})
	m.clients[sessionID] = &sessionClient{client: client, lastUsed: time.Now()}
	return client
}

func (m *SessionManager) evict(sessionID string) {
	m.mu.Lock()
	delete(m.clients, sessionID)
	m.mu.Unlock()
}

func (m *SessionManager) saveProfile(ctx context.Context, sessionID string, user *domain.User) {
	if user.RoleDisplay == "" {
		user.RoleDisplay = user.Role.Display()
	}
	if err := m.store.SaveUser(ctx, sessionID, user); err != nil {
		logger.ForSession(sessionID).Warn("Failed to refresh stored profile", zap.Error(err))
	}
}

// anonymousTokens backs the client used before a session exists.
type anonymousTokens struct{}

func (anonymousTokens) AccessToken(context.Context) (string, error)      { return "", nil }
func (anonymousTokens) RefreshToken(context.Context) (string, error)     { return "", nil }
func (anonymousTokens) SaveTokens(context.Context, string, string) error { return nil }
func (anonymousTokens) Clear(context.Context) error                      { return nil }
