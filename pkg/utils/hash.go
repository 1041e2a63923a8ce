// Package utils holds small helpers shared across handlers.
package utils

import "golang.org/x/crypto/bcrypt"

// Password hashes carry their own salt and cost, so the cost can be raised
// later without invalidating stored hashes.
const bcryptCost = bcrypt.DefaultCost

// HashPassword derives a bcrypt hash from a plain-text password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
