package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophsession/internal/server/services"
)

const maxBodyBytes = 1 << 20

// MsgMalformedBody is returned for bodies that are not a JSON object.
const MsgMalformedBody = "Malformed request body."

type messageResponse struct {
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []services.FieldError `json:"errors"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// decodeJSON reads a single JSON value into dst. An empty body leaves dst
// untouched so missing fields surface as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func writeValidation(w http.ResponseWriter, errs []services.FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, errorsResponse{Errors: errs})
}
