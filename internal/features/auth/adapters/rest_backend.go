package adapters

import (
	"context"
	"fmt"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/auth/domain"
)

const (
	logoutPath         = "/auth/logout/"
	mePath             = "/auth/me/"
	changePasswordPath = "/auth/change-password/"
)

// RESTBackend implements ports.Backend against the fleet REST API.
type RESTBackend struct {
	api apiclient.Requester
}

// NewRESTBackend creates a new RESTBackend.
func NewRESTBackend(api apiclient.Requester) *RESTBackend {
	return &RESTBackend{api: api}
}

// Login exchanges credentials for a token pair and the user profile.
func (b *RESTBackend) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	var res domain.LoginResult
	if err := apiclient.Post(ctx, b.api, apiclient.LoginPath, creds, &res); err != nil {
		return nil, err
	}
	if res.Access == "" || res.Refresh == "" {
		return nil, fmt.Errorf("login response carried no tokens")
	}
	return &res, nil
}

type registerResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

// Register creates an account. It does not sign the user in.
func (b *RESTBackend) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	var res registerResponse
	if err := apiclient.Post(ctx, b.api, apiclient.RegisterPath, reg, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// Logout blacklists the refresh token on the backend.
func (b *RESTBackend) Logout(ctx context.Context, refreshToken string) error {
	return apiclient.Post(ctx, b.api, logoutPath, map[string]string{"refresh": refreshToken}, nil)
}

func (b *RESTBackend) Me(ctx context.Context) (*domain.User, error) {
	return apiclient.Get[domain.User](ctx, b.api, mePath)
}

func (b *RESTBackend) UpdateMe(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	return apiclient.Patch[domain.User](ctx, b.api, mePath, upd)
}

func (b *RESTBackend) ChangePassword(ctx context.Context, pc domain.PasswordChange) error {
	return apiclient.Post(ctx, b.api, changePasswordPath, pc, nil)
}
