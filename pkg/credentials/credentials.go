// Package credentials wraps password hashing for account storage.
package credentials

import "golang.org/x/crypto/bcrypt"

// SentinelOAuth is stored in place of a password hash for accounts created
// through an external identity provider. It never verifies against any
// plaintext, so those accounts cannot log in with a password.
const SentinelOAuth = "oauth_user"

func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Verify(plaintext, hashed string) bool {
	if hashed == SentinelOAuth {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
