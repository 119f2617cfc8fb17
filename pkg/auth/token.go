package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	kdb "github.com/tonearm/labeld/pkg/db"
)

var ErrInvalidToken = errors.New("invalid token")

// Session identifies a logged-in account.
type Session struct {
	Login string
	Role  kdb.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the account.
func (i *Issuer) Issue(account *kdb.Account, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	return token.SignedString(i.secret)
}

// Verify parses a signed token and recovers the session from it.
//
// Expired or tampered tokens fail with ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (Session, error) {
	c := claims{}
	if _, err := jwt.ParseWithClaims(
		tokenString, &c,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	); err != nil {
		return Session{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	role := kdb.Role(c.Role)
	if !role.Known() {
		return Session{}, fmt.Errorf("%w: unknown role: %s", ErrInvalidToken, c.Role)
	}

	return Session{Login: c.Subject, Role: role}, nil
}
