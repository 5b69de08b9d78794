package barbershop

import (
	"context"
	nethttp "net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbearia/apiclient/credentials"
	"github.com/barbearia/apiclient/httpclient"
)

func TestLoginPersistsSession(t *testing.T) {
	user := map[string]any{"_id": "u1", "name": "Ana", "email": testEmail, "role": "admin"}
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"POST /auth/login": respondJSON(nethttp.StatusOK, map[string]any{"token": testToken, "user": user}),
		"GET /auth/me":     respondJSON(nethttp.StatusOK, map[string]any{"success": true, "user": user}),
	})
	client, store := newTestAPI(t, api.URL)
	ctx := context.Background()

	session, err := client.Login(ctx, LoginRequest{Email: testEmail, Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, testToken, session.Token)
	require.NotNil(t, session.User)
	assert.True(t, session.User.IsAdmin())

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)

	calls := api.recorded()
	require.Len(t, calls, 2)
	assert.Empty(t, calls[0].auth)
	assert.Equal(t, testEmail, calls[0].body["email"])
	assert.Equal(t, "Bearer "+testToken, calls[1].auth)
}

func TestRegisterPersistsSession(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"POST /auth/register": respondJSON(nethttp.StatusCreated, map[string]any{
			"token": testToken,
			"user":  map[string]any{"_id": "u2", "name": "Bia", "role": "user"},
		}),
	})
	client, store := newTestAPI(t, api.URL)

	session, err := client.Register(context.Background(), RegisterRequest{Name: "Bia", Email: "bia@barbearia.test", Password: "x"})
	require.NoError(t, err)
	assert.False(t, session.User.IsAdmin())

	u, err := store.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bia", u.Name)
	assert.Equal(t, "Bia", api.recorded()[0].body["name"])
}

func TestLoginWithoutToken(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"POST /auth/login": respondJSON(nethttp.StatusOK, map[string]any{"message": "ok"}),
	})
	client, store := newTestAPI(t, api.URL)

	_, err := client.Login(context.Background(), LoginRequest{Email: testEmail})
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = store.Token(context.Background())
	assert.ErrorIs(t, err, credentials.ErrNoCredentials)
}

func TestLoginRejected(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"POST /auth/login": respondJSON(nethttp.StatusBadRequest, map[string]any{"message": "Credenciais inválidas"}),
	})
	client, _ := newTestAPI(t, api.URL)

	_, err := client.Login(context.Background(), LoginRequest{Email: testEmail, Password: "wrong"})
	require.Error(t, err)
	assert.True(t, httpclient.IsHTTPStatusError(err, nethttp.StatusBadRequest))
	assert.Contains(t, err.Error(), "POST /auth/login")
}

func TestMeWithExpiredSession(t *testing.T) {
	api := newFakeAPI(t, map[string]nethttp.HandlerFunc{
		"GET /auth/me": respondJSON(nethttp.StatusUnauthorized, map[string]any{"message": "expired"}),
	})
	client, store := newTestAPI(t, api.URL)
	require.NoError(t, store.Save(context.Background(), credentials.Session{Token: testToken}))

	_, err := client.Me(context.Background())
	assert.True(t, httpclient.IsAuthExpired(err))
	_, err = store.Token(context.Background())
	assert.ErrorIs(t, err, credentials.ErrNoCredentials)
}

func TestLogout(t *testing.T) {
	client, store := newTestAPI(t, "http://unused.test")
	require.NoError(t, store.Save(context.Background(), credentials.Session{Token: testToken}))

	require.NoError(t, client.Logout(context.Background()))
	_, err := store.Token(context.Background())
	assert.ErrorIs(t, err, credentials.ErrNoCredentials)

	assert.NoError(t, New(nil, nil, nil).Logout(context.Background()))
}
