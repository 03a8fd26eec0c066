// Package client talks to the gophsession HTTP API and bootstraps the
// CLI's local SQLite database.
//
// Transport failures are reported as ErrUnavailable and 401 responses as
// ErrUnauthorized, both matchable with errors.Is. Every other non-2xx
// response is an *APIError carrying the server message and, for 422,
// the individual field errors.
package client
