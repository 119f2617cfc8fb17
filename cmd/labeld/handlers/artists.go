package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apiartists "github.com/tonearm/labeld/pkg/api/types/artists"
	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	"github.com/tonearm/labeld/pkg/bulk"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

func FindArtistHandler(dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		artistIds, err := dbArtist.Find(ctx, c.QueryParam("name"))
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(artistIds) == 0 {
			return c.JSON(http.StatusOK, []apiartists.Detail{})
		}

		artists, err := dbArtist.Get(ctx, artistIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apiartists.Detail, 0, len(artists))
		for _, artistId := range artistIds {
			if a, ok := artists[artistId]; ok {
				found = append(found, apiartists.ComposeDetail(*a))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetArtistHandler(dbArtist kdb.ArtistInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		artistId := c.Param(paramKey)

		artists, err := dbArtist.Get(ctx, []string{artistId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		a, ok := artists[artistId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiartists.ComposeDetail(*a))
	}
}

func RegisterArtistHandler(dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec := apiartists.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		artistId, err := dbArtist.Register(ctx, spec.ToDBSpec(), spec.Force)
		if err != nil {
			if similar := new(kdb.ErrSimilarArtistExists); errors.As(err, similar) {
				return apierr.Conflict(
					"similar artists are already registered",
					apierr.WithAdvice(similarityAdvice(similar.Candidates)),
					apierr.WithError(err),
				)
			}
			return asAPIError(err)
		}

		artists, err := dbArtist.Get(ctx, []string{artistId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		a, ok := artists[artistId]
		if !ok {
			return apierr.InternalServerError(errors.New("registered artist is gone"))
		}

		return c.JSON(http.StatusOK, apiartists.ComposeDetail(*a))
	}
}

// similarityAdvice summarizes conflicting artists for the error envelope.
func similarityAdvice(candidates []kdb.ArtistSimilarity) string {
	names := utils.Map(candidates, func(s kdb.ArtistSimilarity) string {
		return s.Artist.Name
	})
	return strings.Join(
		[]string{
			"similar: " + strings.Join(names, ", "),
			`pass "force": true to register anyway`,
		},
		". ",
	)
}

func UpdateArtistHandler(dbArtist kdb.ArtistInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		artistId := c.Param(paramKey)

		spec := apiartists.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		if err := dbArtist.Update(ctx, artistId, spec.ToDBSpec()); err != nil {
			return asAPIError(err)
		}

		artists, err := dbArtist.Get(ctx, []string{artistId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		a, ok := artists[artistId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiartists.ComposeDetail(*a))
	}
}

func DeleteArtistHandler(dbArtist kdb.ArtistInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := dbArtist.Delete(ctx, c.Param(paramKey)); err != nil {
			return asAPIError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func FindSimilarArtistHandler(dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		name := c.QueryParam("name")
		if name == "" {
			return apierr.BadRequest("query parameter name is required", nil)
		}

		similarities, err := dbArtist.FindSimilar(ctx, name)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(
			http.StatusOK,
			utils.Map(similarities, apiartists.ComposeSimilarity),
		)
	}
}

func ImportArtistsHandler(dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	type importResult struct {
		Registered int      `json:"registered"`
		Skipped    []string `json:"skipped,omitempty"`
	}

	return func(c echo.Context) error {
		ctx := c.Request().Context()

		options := bulk.Options{
			Force:      c.QueryParam("force") == "true",
			BestEffort: c.QueryParam("bestEffort") == "true",
		}

		result, err := bulk.ImportArtists(ctx, dbArtist, c.Request().Body, options)
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

func ExportArtistsHandler(dbArtist kdb.ArtistInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		artistIds, err := dbArtist.Find(ctx, "")
		if err != nil {
			return apierr.InternalServerError(err)
		}
		artists, err := dbArtist.Get(ctx, artistIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		ordered := make([]kdb.Artist, 0, len(artists))
		for _, artistId := range artistIds {
			if a, ok := artists[artistId]; ok {
				ordered = append(ordered, *a)
			}
		}

		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().WriteHeader(http.StatusOK)
		return bulk.WriteArtists(c.Response(), ordered)
	}
}
