// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claims and the id of the user the token
// was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// GenerateToken signs an HS256 token for userID. A zero validity issues a
// token without an expiry, matching sessions that live until logout.
// Every token gets a random jti so two sign-ins never share a token.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: userID,
	}
	if validityDuration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken verifies tokenString and returns the embedded user id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields an error wrapping common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// JWTCodec binds a secret and validity so services can issue and read
// tokens without knowing about either.
type JWTCodec struct {
	secret   []byte
	validity time.Duration
}

func NewJWTCodec(secret []byte, validity time.Duration) *JWTCodec {
	return &JWTCodec{secret: secret, validity: validity}
}

func (c *JWTCodec) Issue(userID string) (string, error) {
	return GenerateToken(userID, c.secret, c.validity)
}

func (c *JWTCodec) UserID(token string) (string, error) {
	return GetUserIDFromToken(token, c.secret)
}
