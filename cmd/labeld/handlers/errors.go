package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// asAPIError maps database errors to the error envelope.
//
// Handlers map their interesting cases first and fall back here.
func asAPIError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, kdb.ErrMissing):
		return apierr.NotFound()
	case errors.Is(err, kdb.ErrInvalidSpec):
		return apierr.BadRequest(err.Error(), err)
	case errors.Is(err, kdb.ErrConflict):
		return apierr.Conflict(err.Error(), apierr.WithError(err))
	}
	return apierr.InternalServerError(err)
}
