package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
)

const sessionContextKey = "labeld/session"

// Middleware verifies the bearer token of each request and
// stores the session in the echo context.
func Middleware(issuer *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return echo.NewHTTPError(http.StatusUnauthorized, "bearer token is required")
			}

			session, err := issuer.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "token is not valid")
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// RequireRole rejects requests whose session role does not
// cover the required one.
func RequireRole(required kdb.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := SessionFor(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "bearer token is required")
			}
			if !session.Role.Satisfies(required) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// SessionFor reads the session stored by Middleware.
func SessionFor(c echo.Context) (Session, bool) {
	session, ok := c.Get(sessionContextKey).(Session)
	return session, ok
}

// WithSession stores a session in the echo context. For testing.
func WithSession(c echo.Context, session Session) {
	c.Set(sessionContextKey, session)
}
