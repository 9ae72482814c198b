// Package token issues the signed session tokens consumed by the auth
// middleware.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const TTL = 24 * time.Hour

// Issue signs an HS256 token whose sub claim carries the user ID.
func Issue(userID, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(TTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
