package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

// requireUser authenticates the bearer token and stores the user in the
// request context. Requests without a usable token never reach next.
func requireUser(a Authenticator, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))

			user, err := a.Authenticate(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrNoToken):
				writeMessage(w, http.StatusUnauthorized, services.MsgNoToken)
				return
			case errors.Is(err, common.ErrInvalidToken):
				writeMessage(w, http.StatusUnauthorized, services.MsgInvalidToken)
				return
			default:
				logger.Error(r.Context(), "authentication failed", "error", err)
				writeMessage(w, http.StatusInternalServerError, services.MsgInternal)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// requestLogger logs one line per request after it completes.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
