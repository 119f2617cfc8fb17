package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	apireleases "github.com/tonearm/labeld/pkg/api/types/releases"
	"github.com/tonearm/labeld/pkg/bulk"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

func FindReleaseHandler(dbRelease kdb.ReleaseInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		query, err := queryParamToReleaseQuery(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		releaseIds, err := dbRelease.Find(ctx, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(releaseIds) == 0 {
			return c.JSON(http.StatusOK, []apireleases.Detail{})
		}

		releases, err := dbRelease.Get(ctx, releaseIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apireleases.Detail, 0, len(releases))
		for _, releaseId := range releaseIds {
			if r, ok := releases[releaseId]; ok {
				found = append(found, apireleases.ComposeDetail(*r))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func queryParamToReleaseQuery(c echo.Context) (kdb.ReleaseFindQuery, error) {
	query := kdb.ReleaseFindQuery{
		ArtistId: c.QueryParam("artistId"),
		Platform: kdb.PlatformName(c.QueryParam("platform")),
	}

	if param := c.QueryParam("status"); param != "" {
		status := kdb.ReleaseStatus(param)
		if !status.Known() {
			return kdb.ReleaseFindQuery{}, errors.New("unknown status: " + param)
		}
		query.Status = &status
	}
	if query.Platform != "" && !query.Platform.Known() {
		return kdb.ReleaseFindQuery{}, errors.New("unknown platform: " + string(query.Platform))
	}
	if param := c.QueryParam("platformStatus"); param != "" {
		status := kdb.PlatformStatus(param)
		if !status.Known() {
			return kdb.ReleaseFindQuery{}, errors.New("unknown platform status: " + param)
		}
		query.PlatformStatus = &status
	}

	return query, nil
}

func GetReleaseHandler(dbRelease kdb.ReleaseInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		releaseId := c.Param(paramKey)

		releases, err := dbRelease.Get(ctx, []string{releaseId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		r, ok := releases[releaseId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apireleases.ComposeDetail(*r))
	}
}

func RegisterReleaseHandler(dbRelease kdb.ReleaseInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		specInReq := apireleases.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&specInReq); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		spec, err := specInReq.ToDBSpec()
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		releaseId, err := dbRelease.Register(ctx, spec)
		if err != nil {
			// there is no release to be "not found" yet:
			// an unregistered owner is a fault of the request body
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.BadRequest(err.Error(), err)
			}
			return asAPIError(err)
		}

		releases, err := dbRelease.Get(ctx, []string{releaseId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		r, ok := releases[releaseId]
		if !ok {
			return apierr.InternalServerError(errors.New("registered release is gone"))
		}

		return c.JSON(http.StatusOK, apireleases.ComposeDetail(*r))
	}
}

func UpdateReleaseHandler(dbRelease kdb.ReleaseInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		releaseId := c.Param(paramKey)

		specInReq := apireleases.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&specInReq); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}
		spec, err := specInReq.ToDBSpec()
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		if err := dbRelease.Update(ctx, releaseId, spec); err != nil {
			return asAPIError(err)
		}

		releases, err := dbRelease.Get(ctx, []string{releaseId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		r, ok := releases[releaseId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apireleases.ComposeDetail(*r))
	}
}

func SetReleaseStatusHandler(dbRelease kdb.ReleaseInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		releaseId := c.Param(paramKey)

		change := apireleases.StatusChange{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&change); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		status := kdb.ReleaseStatus(change.Status)
		if !status.Known() {
			return apierr.BadRequest("unknown status: "+change.Status, nil)
		}

		if err := dbRelease.SetStatus(ctx, releaseId, status); err != nil {
			if transition := new(kdb.ErrInvalidTransition); errors.As(err, transition) {
				return apierr.Conflict(
					transition.Error(),
					apierr.WithError(err),
				)
			}
			return asAPIError(err)
		}

		releases, err := dbRelease.Get(ctx, []string{releaseId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		r, ok := releases[releaseId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apireleases.ComposeDetail(*r))
	}
}

func DeleteReleaseHandler(dbRelease kdb.ReleaseInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := dbRelease.Delete(ctx, c.Param(paramKey)); err != nil {
			return asAPIError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func ImportReleasesHandler(dbRelease kdb.ReleaseInterface, dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	type importResult struct {
		Registered int      `json:"registered"`
		Skipped    []string `json:"skipped,omitempty"`
	}

	return func(c echo.Context) error {
		ctx := c.Request().Context()

		options := bulk.Options{
			BestEffort: c.QueryParam("bestEffort") == "true",
		}

		result, err := bulk.ImportReleases(
			ctx, dbRelease, c.Request().Body, bulk.ResolverFor(dbArtist), options,
		)
		if err != nil {
			if rowErr := new(bulk.RowError); errors.As(err, rowErr) {
				return apierr.BadRequest(rowErr.Error(), err)
			}
			return asAPIError(err)
		}

		return c.JSON(http.StatusOK, importResult{
			Registered: len(result.Registered),
			Skipped: utils.Map(result.Skipped, func(e bulk.RowError) string {
				return e.Error()
			}),
		})
	}
}

func ExportReleasesHandler(dbRelease kdb.ReleaseInterface, dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		releaseIds, err := dbRelease.Find(ctx, kdb.ReleaseFindQuery{})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		releases, err := dbRelease.Get(ctx, releaseIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		ownerIds := map[string]struct{}{}
		ordered := make([]kdb.Release, 0, len(releases))
		for _, releaseId := range releaseIds {
			r, ok := releases[releaseId]
			if !ok {
				continue
			}
			ordered = append(ordered, *r)
			for _, o := range r.Owners {
				ownerIds[o.ArtistId] = struct{}{}
			}
		}

		artistIds := make([]string, 0, len(ownerIds))
		for artistId := range ownerIds {
			artistIds = append(artistIds, artistId)
		}
		artists, err := dbArtist.Get(ctx, artistIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().WriteHeader(http.StatusOK)
		return bulk.WriteReleases(c.Response(), ordered, artists)
	}
}
