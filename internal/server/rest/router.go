// Package rest exposes the account and session operations over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// MsgTooManyRequests is sent when a client exceeds the rate limit.
const MsgTooManyRequests = "Too many requests, please try again later."

type Deps struct {
	Sessions SessionManager
	Users    UserManager
	Auth     Authenticator
	Health   Pinger
	Metrics  *metrics.Collectors
	Logger   logging.Logger
}

type Options struct {
	AllowedOrigins []string
	// RateLimit requests per RateWindow per client IP; 0 disables limiting.
	RateLimit  int
	RateWindow time.Duration
	Tracing    bool
}

// NewRouter builds the HTTP handler with all routes and middleware.
func NewRouter(d Deps, o Options) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	h := &handlers{
		sessions: d.Sessions,
		users:    d.Users,
		health:   d.Health,
		metrics:  d.Metrics,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if o.RateLimit > 0 {
			r.Use(httprate.Limit(o.RateLimit, o.RateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeMessage(w, http.StatusTooManyRequests, MsgTooManyRequests)
				}),
			))
		}
		if o.Tracing {
			r.Use(telemetry.Middleware("gophsession.http"))
		}

		r.Post("/users", h.register)
		r.Post("/signin", h.signin)

		r.Group(func(r chi.Router) {
			r.Use(requireUser(d.Auth, logger))
			r.Get("/users", h.listUsers)
			r.Delete("/logout", h.logout)
		})
	})

	return r
}
