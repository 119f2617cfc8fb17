package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a storable hash from a raw password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword answeres whether the raw password matches the hash.
func VerifyPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
