package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	apiplatforms "github.com/tonearm/labeld/pkg/api/types/platforms"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

func SubmitPlatformHandler(dbPlatform kdb.PlatformInterface, releaseKey string, platformKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		releaseId := c.Param(releaseKey)

		platform := kdb.PlatformName(c.Param(platformKey))
		if !platform.Known() {
			return apierr.BadRequest("unknown platform: "+string(platform), nil)
		}

		if err := dbPlatform.Submit(ctx, releaseId, platform); err != nil {
			return asAPIError(err)
		}

		return listPlatformRequests(c, dbPlatform, releaseId)
	}
}

func SetPlatformStatusHandler(dbPlatform kdb.PlatformInterface, releaseKey string, platformKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		releaseId := c.Param(releaseKey)

		platform := kdb.PlatformName(c.Param(platformKey))
		if !platform.Known() {
			return apierr.BadRequest("unknown platform: "+string(platform), nil)
		}

		change := apiplatforms.StatusChange{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&change); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		status := kdb.PlatformStatus(change.Status)
		if !status.Known() {
			return apierr.BadRequest("unknown status: "+change.Status, nil)
		}

		if err := dbPlatform.SetStatus(ctx, releaseId, platform, status, change.Note); err != nil {
			if transition := new(kdb.ErrInvalidTransition); errors.As(err, transition) {
				return apierr.Conflict(transition.Error(), apierr.WithError(err))
			}
			return asAPIError(err)
		}

		return listPlatformRequests(c, dbPlatform, releaseId)
	}
}

func ListPlatformHandler(dbPlatform kdb.PlatformInterface, releaseKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return listPlatformRequests(c, dbPlatform, c.Param(releaseKey))
	}
}

func listPlatformRequests(c echo.Context, dbPlatform kdb.PlatformInterface, releaseId string) error {
	ctx := c.Request().Context()

	requests, err := dbPlatform.ListByRelease(ctx, releaseId)
	if err != nil {
		return asAPIError(err)
	}

	return c.JSON(
		http.StatusOK,
		utils.Map(requests, apiplatforms.ComposeDetail),
	)
}

func PlatformSummaryHandler(dbPlatform kdb.PlatformInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		summary, err := dbPlatform.Summary(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apiplatforms.ComposeSummary(summary))
	}
}
