package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/rest"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *HTTPClient {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	codec := auth.NewJWTCodec([]byte("client-test"), 0)

	srv := httptest.NewServer(rest.NewRouter(rest.Deps{
		Sessions: services.NewSessionService(m.Users(), m.Sessions(), hasher, codec, nil, nil),
		Users:    services.NewUserService(m.Users(), hasher, nil),
		Auth:     services.NewAuthenticator(m.Users(), m.Sessions(), codec),
		Health:   m,
	}, rest.Options{}))
	t.Cleanup(srv.Close)

	return NewHTTPClient(srv.URL+"/", 5*time.Second)
}

func TestHTTPClient_Flow(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	u, err := c.Register(ctx, "Alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.False(t, u.Created.IsZero())

	token, err := c.Signin(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = c.Signin(ctx, "a@x.com", "secret1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, services.MsgActiveSession, apiErr.Message)

	list, err := c.Users(ctx, token, "asc")
	require.NoError(t, err)
	require.Len(t, list, 1)

	msg, err := c.Logout(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, services.MsgSessionsTerminated, msg)

	_, err = c.Logout(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestHTTPClient_ValidationFields(t *testing.T) {
	c := newServer(t)

	_, err := c.Register(context.Background(), "Al", "a@x.com", "secret1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "name", apiErr.Fields[0].Field)
	assert.Contains(t, apiErr.Error(), "name: ")
}

func TestHTTPClient_Unauthorized(t *testing.T) {
	c := newServer(t)

	_, err := c.Users(context.Background(), "bogus", "asc")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewHTTPClient(srv.URL, time.Second).Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}
