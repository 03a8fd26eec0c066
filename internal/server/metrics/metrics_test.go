package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collectors) string {
	t.Helper()
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, id := range []string{"1", "2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
		require.Equal(t, http.StatusAccepted, rr.Code)
	}

	out := scrape(t, c)
	assert.Contains(t, out, `gophsession_http_requests_total{method="GET",route="/users/{id}",status="202"} 2`)
	assert.NotContains(t, out, `route="/users/1"`)
}

func TestObserveSigninAndLogout(t *testing.T) {
	c := New()
	c.ObserveSignin(200)
	c.ObserveSignin(409)
	c.ObserveSignin(409)
	c.ObserveLogout(403)

	out := scrape(t, c)
	assert.Contains(t, out, `gophsession_signins_total{status="200"} 1`)
	assert.Contains(t, out, `gophsession_signins_total{status="409"} 2`)
	assert.Contains(t, out, `gophsession_logouts_total{status="403"} 1`)
}

func TestObserve_NilReceiver(t *testing.T) {
	var c *Collectors
	assert.NotPanics(t, func() {
		c.ObserveSignin(200)
		c.ObserveLogout(200)
	})
}
