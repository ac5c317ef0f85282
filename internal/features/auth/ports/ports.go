package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/auth/domain"
)

// SessionService is the primary port used by the auth handlers and middleware.
type SessionService interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	// Resolve loads the session and the client acting on its behalf.
	Resolve(ctx context.Context, sessionID string) (*domain.Session, apiclient.Requester, error)
	// Describe is Resolve plus the access token's expiry hint.
	Describe(ctx context.Context, sessionID string) (*domain.Session, error)
	// Me, UpdateMe and ChangePassword expect the session's client bound to ctx.
	Me(ctx context.Context, sessionID string) (*domain.User, error)
	UpdateMe(ctx context.Context, sessionID string, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, pc domain.PasswordChange) error
}

// Backend is the secondary port for the backend's auth endpoints.
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context) (*domain.User, error)
	UpdateMe(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, pc domain.PasswordChange) error
}

// SessionStore is the secondary port for durable session state.
type SessionStore interface {
	// Tokens returns the token store for one session.
	Tokens(sessionID string) apiclient.TokenStore
	SaveUser(ctx context.Context, sessionID string, user *domain.User) error
	// User returns domain.ErrSessionNotFound when nothing is stored.
	User(ctx context.Context, sessionID string) (*domain.User, error)
	Delete(ctx context.Context, sessionID string) error
}
