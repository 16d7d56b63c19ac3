// Package cryptox wraps the password hashing primitive used by the
// credential flows. Passwords are stored only as bcrypt digests; the
// digest alone is insufficient to log in.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted one-way digest from the plaintext password.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the plaintext password produced the digest.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
