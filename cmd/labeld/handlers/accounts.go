package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	apiaccounts "github.com/tonearm/labeld/pkg/api/types/accounts"
	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	"github.com/tonearm/labeld/pkg/auth"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

func FindAccountHandler(dbAccount kdb.AccountInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		accounts, err := dbAccount.Find(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(
			http.StatusOK,
			utils.Map(accounts, apiaccounts.ComposeDetail),
		)
	}
}

func RegisterAccountHandler(dbAccount kdb.AccountInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec := apiaccounts.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		if spec.Password == "" {
			return apierr.BadRequest("password is required", nil)
		}

		hash, err := auth.HashPassword(spec.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		if err := dbAccount.Register(ctx, kdb.AccountSpec{
			Login:        spec.Login,
			PasswordHash: hash,
			Role:         kdb.Role(spec.Role),
			EmployeeId:   spec.EmployeeId,
		}); err != nil {
			return asAPIError(err)
		}

		account, err := dbAccount.GetByLogin(ctx, spec.Login)
		if err != nil {
			return asAPIError(err)
		}

		return c.JSON(http.StatusOK, apiaccounts.ComposeDetail(*account))
	}
}

// ChangePasswordHandler lets admins change any password and
// other roles change their own.
func ChangePasswordHandler(dbAccount kdb.AccountInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		login := c.Param(paramKey)

		session, ok := auth.SessionFor(c)
		if !ok {
			return apierr.Unauthorized("login first", nil)
		}
		if !session.Role.Satisfies(kdb.Admin) && session.Login != login {
			return apierr.NewErrorMessage(
				http.StatusForbidden,
				"cannot change another account's password",
			)
		}

		change := apiaccounts.PasswordChange{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&change); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		if change.Password == "" {
			return apierr.BadRequest("password is required", nil)
		}

		hash, err := auth.HashPassword(change.Password)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		if err := dbAccount.UpdatePassword(ctx, login, hash); err != nil {
			return asAPIError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}
