// Package models holds the server-side records persisted by the stores.
package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created"`
}
