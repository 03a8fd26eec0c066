// Package common contains shared constants and sentinel errors used across
// gophsession components.
package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries the session token. gRPC metadata keys are lower case.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the scheme clients put in front of the token.
const BearerScheme = "Bearer"
