package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/core/cache"
	"fleet-admin/internal/core/validation"
	"fleet-admin/internal/features/auth/adapters"
	"fleet-admin/internal/features/auth/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend is a mock implementation of ports.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockBackend) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockBackend) Me(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockBackend) UpdateMe(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockBackend) ChangePassword(ctx context.Context, pc domain.PasswordChange) error {
	return m.Called(ctx, pc).Error(0)
}

var withClient = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := apiclient.FromContext(ctx)
	return ok
})

func setup(t *testing.T) (*SessionManager, *MockBackend, *adapters.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	store := adapters.NewRedisSessionStore(c, time.Hour)
	backend := new(MockBackend)
	factory := func(tokens apiclient.TokenStore, onExpired func(context.Context, error)) *apiclient.Client {
		return apiclient.New(apiclient.Options{BaseURL: "http://backend.invalid/api", OnSessionExpired: onExpired}, tokens)
	}
	return NewSessionManager(backend, store, factory), backend, store, mr
}

func accessToken(t *testing.T, role domain.Role, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.TokenClaims{
		TokenType:        "access",
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionManager_Login(t *testing.T) {
	manager, backend, store, mr := setup(t)
	ctx := context.Background()
	creds := domain.Credentials{Username: "ana", Password: "secret"}
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	access := accessToken(t, domain.RoleManager, exp)

	backend.On("Login", withClient, creds).Return(&domain.LoginResult{
		Access:  access,
		Refresh: "refresh-1",
		User:    domain.User{ID: 3, Username: "ana", FullName: "Ana Ruiz"},
	}, nil).Once()

	session, err := manager.Login(ctx, creds)
	require.NoError(t, err)
	backend.AssertExpectations(t)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, domain.RoleManager, session.User.Role, "role falls back to the token claim")
	assert.Equal(t, "Manager", session.User.RoleDisplay)
	require.NotNil(t, session.AccessExpiresAt)
	assert.True(t, exp.Equal(*session.AccessExpiresAt))

	stored, err := mr.Get("session:" + session.ID + ":refresh_token")
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", stored)

	resolved, client, err := manager.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", resolved.User.DisplayName())
	assert.NotNil(t, client)

	_, again, err := manager.Resolve(ctx, session.ID)
	require.NoError(t, err)
	assert.Same(t, client, again, "one client per session")
	assert.Equal(t, 1, manager.ActiveClients())

	tokens, _ := store.Tokens(session.ID).AccessToken(ctx)
	assert.Equal(t, access, tokens)
}

func TestSessionManager_LoginValidation(t *testing.T) {
	manager, backend, _, _ := setup(t)

	_, err := manager.Login(context.Background(), domain.Credentials{Username: "ana"})
	assert.ErrorIs(t, err, validation.ErrInvalid)
	backend.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestSessionManager_LoginRejected(t *testing.T) {
	manager, backend, _, mr := setup(t)
	creds := domain.Credentials{Username: "ana", Password: "bad"}

	backend.On("Login", withClient, creds).Return(nil, &apiclient.APIError{Status: 401, Message: "No active account found with the given credentials"}).Once()

	_, err := manager.Login(context.Background(), creds)
	assert.True(t, apiclient.IsStatus(err, 401))
	assert.Equal(t, 0, manager.ActiveClients())
	assert.Empty(t, mr.Keys())
}

func TestSessionManager_LogoutAlwaysClears(t *testing.T) {
	manager, backend, store, mr := setup(t)
	ctx := context.Background()

	require.NoError(t, store.Tokens("s1").SaveTokens(ctx, "a", "refresh-1"))
	require.NoError(t, store.SaveUser(ctx, "s1", &domain.User{Username: "ana"}))

	backend.On("Logout", withClient, "refresh-1").Return(errors.New("backend down")).Once()

	require.NoError(t, manager.Logout(ctx, "s1"))
	backend.AssertExpectations(t)
	assert.Empty(t, mr.Keys())
	assert.Equal(t, 0, manager.ActiveClients())

	_, _, err := manager.Resolve(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManager_LogoutWithoutTokens(t *testing.T) {
	manager, backend, _, _ := setup(t)

	require.NoError(t, manager.Logout(context.Background(), "unknown"))
	backend.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
}

func TestSessionManager_Resolve(t *testing.T) {
	manager, _, _, _ := setup(t)

	_, _, err := manager.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, _, err = manager.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionManager_ExpireAndSweep(t *testing.T) {
	manager, _, store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, "s1", &domain.User{Username: "ana"}))
	require.NoError(t, store.SaveUser(ctx, "s2", &domain.User{Username: "ben"}))
	_, _, err := manager.Resolve(ctx, "s1")
	require.NoError(t, err)
	_, _, err = manager.Resolve(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, manager.ActiveClients())

	manager.Expire("s1", apiclient.ErrNoRefreshToken)
	assert.Equal(t, 1, manager.ActiveClients())

	assert.Equal(t, 0, manager.Sweep(time.Hour))
	assert.Equal(t, 1, manager.Sweep(-time.Second))
	assert.Equal(t, 0, manager.ActiveClients())
}

func TestSessionManager_Describe(t *testing.T) {
	manager, _, store, _ := setup(t)
	ctx := context.Background()
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)

	require.NoError(t, store.Tokens("s1").SaveTokens(ctx, accessToken(t, domain.RoleAnalyst, exp), "r"))
	require.NoError(t, store.SaveUser(ctx, "s1", &domain.User{Username: "ana", Role: domain.RoleAnalyst}))

	session, err := manager.Describe(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session.AccessExpiresAt)
	assert.True(t, exp.Equal(*session.AccessExpiresAt))
}

func TestSessionManager_MeRefreshesStoredProfile(t *testing.T) {
	manager, backend, store, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, "s1", &domain.User{Username: "ana", Role: domain.RoleDispatcher}))
	backend.On("Me", ctx).Return(&domain.User{Username: "ana", Role: domain.RoleManager}, nil).Once()

	user, err := manager.Me(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Manager", user.RoleDisplay)

	stored, err := store.User(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, stored.Role)
}

func TestSessionManager_Register(t *testing.T) {
	manager, backend, _, _ := setup(t)
	ctx := context.Background()

	_, err := manager.Register(ctx, domain.Registration{Username: "ben", Password: "short", ConfirmPassword: "short"})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	reg := domain.Registration{Username: "ben", Password: "longenough", ConfirmPassword: "longenough", Role: domain.RoleAnalyst}
	backend.On("Register", withClient, reg).Return(&domain.User{ID: 9, Username: "ben"}, nil).Once()

	user, err := manager.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	backend.AssertExpectations(t)
}

func TestSessionManager_ChangePassword(t *testing.T) {
	manager, backend, _, _ := setup(t)
	ctx := context.Background()

	err := manager.ChangePassword(ctx, domain.PasswordChange{OldPassword: "old", NewPassword: "short"})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	pc := domain.PasswordChange{OldPassword: "old", NewPassword: "newpassword"}
	backend.On("ChangePassword", ctx, pc).Return(nil).Once()
	require.NoError(t, manager.ChangePassword(ctx, pc))
	backend.AssertExpectations(t)
}
