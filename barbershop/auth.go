package barbershop

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/barbearia/apiclient/credentials"
)

// ErrNoToken is returned when the API accepted a login but sent no token.
var ErrNoToken = errors.New("barbershop: auth response without token")

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request payload
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"` //nolint:gosec // request payload
}

type authResponse struct {
	Token string            `json:"token"`
	User  *credentials.User `json:"user"`
}

// Login authenticates and persists the session in the store.
func (a *API) Login(ctx context.Context, req LoginRequest) (*credentials.Session, error) {
	return a.authenticate(ctx, "/auth/login", req)
}

// Register creates an account and persists the returned session.
func (a *API) Register(ctx context.Context, req RegisterRequest) (*credentials.Session, error) {
	return a.authenticate(ctx, "/auth/register", req)
}

func (a *API) authenticate(ctx context.Context, path string, in any) (*credentials.Session, error) {
	var out authResponse
	if err := a.call(ctx, nethttp.MethodPost, path, nil, in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrNoToken
	}

	session := credentials.Session{Token: out.Token, User: out.User}
	if a.store != nil {
		if err := a.store.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	if out.User != nil {
		a.log.Info().Str("user_id", out.User.ID).Str("role", out.User.Role).Msg("Logged in")
	}
	return &session, nil
}

// Me fetches the current user and refreshes the cached identity.
func (a *API) Me(ctx context.Context) (*credentials.User, error) {
	var out struct {
		User *credentials.User `json:"user"`
	}
	if err := a.get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, fmt.Errorf("GET /auth/me: %w", credentials.ErrNoCredentials)
	}

	if a.store != nil {
		if token, err := a.store.Token(ctx); err == nil {
			if err := a.store.Save(ctx, credentials.Session{Token: token, User: out.User}); err != nil {
				a.log.Warn().Err(err).Msg("Could not refresh cached user")
			}
		}
	}
	return out.User, nil
}

// Logout forgets the local session. The API keeps no server-side session.
func (a *API) Logout(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	return a.store.Clear(ctx)
}
