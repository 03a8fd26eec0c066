// Package common defines shared constants and sentinel errors used across
// client and server layers of gophsession. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrActiveSessionExists is returned by session stores when a conditional
	// insert loses against an already active session of the same user.
	ErrActiveSessionExists = errors.New("active session exists")

	// Auth errors.
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
