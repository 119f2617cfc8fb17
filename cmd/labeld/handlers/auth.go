package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apiauth "github.com/tonearm/labeld/pkg/api/types/auth"
	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	"github.com/tonearm/labeld/pkg/auth"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// LoginHandler trades credentials for a session token.
//
// Unknown logins and wrong passwords are indistinguishable
// from the outside.
func LoginHandler(
	dbAccount kdb.AccountInterface,
	issuer *auth.Issuer,
	throttle *auth.Throttle,
	tokenTTL time.Duration,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apiauth.LoginRequest{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		if req.Login == "" || req.Password == "" {
			return apierr.BadRequest("login and password are required", nil)
		}

		if !throttle.Allow(req.Login) {
			return apierr.TooManyRequests("retry later")
		}

		account, err := dbAccount.GetByLogin(ctx, req.Login)
		if err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.Unauthorized("login or password is wrong", nil)
			}
			return apierr.InternalServerError(err)
		}
		if !auth.VerifyPassword(account.PasswordHash, req.Password) {
			return apierr.Unauthorized("login or password is wrong", nil)
		}

		token, err := issuer.Issue(account, time.Now())
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiauth.TokenResponse{
			Token:     token,
			Role:      string(account.Role),
			ExpiresIn: int(tokenTTL / time.Second),
		})
	}
}
