// Package models holds the client-side views of server resources.
package models

import "time"

// User as returned by the server. The password hash is never sent.
type User struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
}

// FieldError is one failed validation rule reported by the server.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location"`
}
