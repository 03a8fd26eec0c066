// Package services contains server-side business logic: registering users,
// opening and closing the single allowed session, and resolving tokens.
package services

import (
	"net/http"

	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

// Client-facing messages.
const (
	MsgInvalidCredentials = "Invalid username or password."
	MsgActiveSession      = "There is already an active session using your account."
	MsgAlreadyLoggedOut   = "User already logged out."
	MsgSessionsTerminated = "All sessions have been terminated."
	MsgUserExists         = "User already exists."
	MsgNoToken            = "Auth Error: No token provided."
	MsgInvalidToken       = "Invalid token"
	MsgInternal           = "Internal server error."
)

// Result is the outcome of a business operation that the caller maps onto
// its transport. Status uses HTTP status codes. Token is set only by a
// successful sign-in and User only by a successful registration.
type Result struct {
	Status  int
	Message string
	Token   string
	User    *models.User
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func invalidCredentials() Result {
	return Result{Status: http.StatusBadRequest, Message: MsgInvalidCredentials}
}

func activeSessionExists() Result {
	return Result{Status: http.StatusConflict, Message: MsgActiveSession}
}

func alreadyLoggedOut() Result {
	return Result{Status: http.StatusForbidden, Message: MsgAlreadyLoggedOut}
}
