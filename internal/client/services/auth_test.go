package services

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/client/client"
	"github.com/dmitrijs2005/gophsession/internal/client/models"
	"github.com/dmitrijs2005/gophsession/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	token     string
	signinErr error
	logoutMsg string
	logoutErr error
	users     []models.User
	usersErr  error

	gotToken string
	closed   bool
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return &models.User{ID: "1", Name: name, Email: email}, nil
}
func (f *fakeClient) Signin(ctx context.Context, email, password string) (string, error) {
	return f.token, f.signinErr
}
func (f *fakeClient) Logout(ctx context.Context, token string) (string, error) {
	f.gotToken = token
	return f.logoutMsg, f.logoutErr
}
func (f *fakeClient) Users(ctx context.Context, token, order string) ([]models.User, error) {
	f.gotToken = token
	return f.users, f.usersErr
}
func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSignin_PersistsToken(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	fc := &fakeClient{token: "tok", users: []models.User{{Email: "a@x.com"}}}
	s := NewAuthService(fc, db)

	_, err := s.WhoAmI(ctx)
	require.ErrorIs(t, err, client.ErrNotSignedIn)

	require.NoError(t, s.Signin(ctx, "a@x.com", []byte("pw")))

	// a fresh service over the same database is still signed in
	s2 := NewAuthService(fc, db)
	who, err := s2.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", who)

	list, err := s2.Users(ctx, "asc")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "tok", fc.gotToken)
}

func TestSignin_ServerRejects(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{signinErr: &client.APIError{Status: http.StatusConflict, Message: "busy"}}
	s := NewAuthService(fc, newDB(t))

	err := s.Signin(ctx, "a@x.com", []byte("pw"))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, err = s.WhoAmI(ctx)
	assert.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestLogout_ClearsToken(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{token: "tok", logoutMsg: "done"}
	s := NewAuthService(fc, newDB(t))

	_, err := s.Logout(ctx)
	require.ErrorIs(t, err, client.ErrNotSignedIn)

	require.NoError(t, s.Signin(ctx, "a@x.com", []byte("pw")))
	msg, err := s.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", msg)
	assert.Equal(t, "tok", fc.gotToken)

	_, err = s.WhoAmI(ctx)
	assert.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestLogout_ForbiddenClearsToken(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{token: "tok", logoutErr: &client.APIError{Status: http.StatusForbidden, Message: "User already logged out."}}
	s := NewAuthService(fc, newDB(t))
	require.NoError(t, s.Signin(ctx, "a@x.com", []byte("pw")))

	_, err := s.Logout(ctx)
	require.Error(t, err)

	_, err = s.WhoAmI(ctx)
	assert.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestLogout_UnavailableKeepsToken(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{token: "tok", logoutErr: client.ErrUnavailable}
	s := NewAuthService(fc, newDB(t))
	require.NoError(t, s.Signin(ctx, "a@x.com", []byte("pw")))

	_, err := s.Logout(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)

	who, err := s.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", who)
}

func TestUsers_NotSignedIn(t *testing.T) {
	s := NewAuthService(&fakeClient{}, newDB(t))
	_, err := s.Users(context.Background(), "asc")
	assert.ErrorIs(t, err, client.ErrNotSignedIn)
}

func TestSignin_SavesSignInTime(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	at := time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC)
	s := &authService{client: &fakeClient{token: "tok"}, db: db, now: func() time.Time { return at }}

	require.NoError(t, s.Signin(ctx, "a@x.com", []byte("pw")))

	saved, err := metadata.NewSQLiteRepository(db).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, metadata.Session{Token: "tok", Email: "a@x.com", SignedInAt: at}, saved)
}

func TestClose_ReleasesClientAndDatabase(t *testing.T) {
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	fc := &fakeClient{}

	require.NoError(t, NewAuthService(fc, db).Close(context.Background()))
	assert.True(t, fc.closed)
	assert.Error(t, db.Ping())
}
