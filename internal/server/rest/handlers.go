package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/metrics"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

type handlers struct {
	sessions SessionManager
	users    UserManager
	health   Pinger
	metrics  *metrics.Collectors
	logger   logging.Logger
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, services.MsgInternal)
}

func (h *handlers) writeResult(w http.ResponseWriter, res services.Result) {
	writeMessage(w, res.Status, res.Message)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgMalformedBody)
		return
	}
	if errs := services.ValidateRegistration(req.Name, req.Email, req.Password); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	res, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !res.OK() {
		h.writeResult(w, res)
		return
	}
	writeJSON(w, res.Status, res.User)
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	created := r.URL.Query().Get("created")
	if errs := services.ValidateListOrder(created); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	list, err := h.users.List(r.Context(), created)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.User{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgMalformedBody)
		return
	}
	if errs := services.ValidateSignin(req.Email, req.Password); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	res, err := h.sessions.Create(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveSignin(http.StatusInternalServerError)
		h.internalError(w, r, err)
		return
	}
	h.metrics.ObserveSignin(res.Status)

	if !res.OK() {
		h.writeResult(w, res)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: res.Token})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	var userID string
	if u, ok := UserFromContext(r.Context()); ok {
		userID = u.ID
	}

	res, err := h.sessions.Remove(r.Context(), userID)
	if err != nil {
		h.metrics.ObserveLogout(http.StatusInternalServerError)
		h.internalError(w, r, err)
		return
	}
	h.metrics.ObserveLogout(res.Status)
	h.writeResult(w, res)
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
