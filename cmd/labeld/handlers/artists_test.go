package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	httptestutil "github.com/tonearm/labeld/internal/testutils/http"
	apiartists "github.com/tonearm/labeld/pkg/api/types/artists"
	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
	dbmock "github.com/tonearm/labeld/pkg/db/mocks"

	"github.com/tonearm/labeld/cmd/labeld/handlers"
)

func TestFindArtistHandler(t *testing.T) {

	t.Run("when artists are found, they should be listed in find order", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Find = func(ctx context.Context, name string) ([]string, error) {
			return []string{"id-2", "id-1"}, nil
		}
		mckArtist.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Artist, error) {
			return map[string]*kdb.Artist{
				"id-1": {ArtistId: "id-1", Name: "DJ Quake"},
				"id-2": {ArtistId: "id-2", Name: "Luna Park"},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/artists?name=a")

		testee := handlers.FindArtistHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code %d != %d", respRec.Result().StatusCode, http.StatusOK)
		}

		actual := []apiartists.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		names := []string{}
		for _, a := range actual {
			names = append(names, a.Name)
		}
		if !cmp.SliceEq(names, []string{"Luna Park", "DJ Quake"}) {
			t.Errorf("unmatch: %v", names)
		}

		if mckArtist.Calls.Find.Times() != 1 {
			t.Errorf("Find should be called once, got %d", mckArtist.Calls.Find.Times())
		}
		if mckArtist.Calls.Find[0].Name != "a" {
			t.Errorf("unmatch query: %s", mckArtist.Calls.Find[0].Name)
		}
	})

	t.Run("when no artist matches, it should respond an empty list", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Find = func(ctx context.Context, name string) ([]string, error) {
			return []string{}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/artists")

		testee := handlers.FindArtistHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if body := strings.TrimSpace(respRec.Body.String()); body != "[]" {
			t.Errorf("unmatch body: %s", body)
		}
	})
}

func TestGetArtistHandler(t *testing.T) {

	t.Run("when the artist is missing, it should respond 404", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Artist, error) {
			return map[string]*kdb.Artist{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/artists/id-missing")
		c.SetPath("/api/artists/:artistId")
		c.SetParamNames("artistId")
		c.SetParamValues("id-missing")

		testee := handlers.GetArtistHandler(mckArtist, "artistId")
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusNotFound)
		}
	})
}

func TestRegisterArtistHandler(t *testing.T) {

	t.Run("when the spec is fine, the artist should be registered and returned", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Register = func(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
			return "id-new", nil
		}
		mckArtist.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Artist, error) {
			return map[string]*kdb.Artist{
				"id-new": {
					ArtistId: "id-new", Name: "DJ Quake",
					Aliases: []string{"The Q"}, Country: "AR",
				},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/artists",
			strings.NewReader(`{"name": "DJ Quake", "aliases": ["The Q"], "country": "AR"}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterArtistHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := apiartists.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		expected := apiartists.Detail{
			ArtistId: "id-new", Name: "DJ Quake",
			Aliases: []string{"The Q"}, Country: "AR",
		}
		if !actual.Equal(expected) {
			t.Errorf("unmatch: %+v (actual) != %+v (expected)", actual, expected)
		}

		if mckArtist.Calls.Register.Times() != 1 {
			t.Fatalf("Register should be called once, got %d", mckArtist.Calls.Register.Times())
		}
		if mckArtist.Calls.Register[0].Force {
			t.Error("force should not be set")
		}
	})

	t.Run("when similar artists exist, it should respond 409", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Register = func(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
			return "", kdb.NewErrSimilarArtistExists([]kdb.ArtistSimilarity{
				{
					Artist:      kdb.Artist{ArtistId: "id-1", Name: "DJ Quake"},
					MatchedName: "DJ Quake", Similarity: 0.95,
				},
			})
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/artists",
			strings.NewReader(`{"name": "DJ Quakee"}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterArtistHandler(mckArtist)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusConflict {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusConflict)
		}
	})

	t.Run("when force is set, it should be passed to the database", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Register = func(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
			return "id-new", nil
		}
		mckArtist.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Artist, error) {
			return map[string]*kdb.Artist{
				"id-new": {ArtistId: "id-new", Name: "DJ Quake"},
			}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/artists",
			strings.NewReader(`{"name": "DJ Quake", "force": true}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterArtistHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if !mckArtist.Calls.Register[0].Force {
			t.Error("force should be set")
		}
	})

	t.Run("when the body has an unknown field, it should respond 400", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/artists",
			strings.NewReader(`{"name": "DJ Quake", "countryy": "AR"}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterArtistHandler(mckArtist)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
		if mckArtist.Calls.Register.Times() != 0 {
			t.Error("Register should not be called")
		}
	})

	t.Run("when the spec is invalid, it should respond 400", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Register = func(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
			return "", spec.Validate()
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/artists",
			strings.NewReader(`{"name": ""}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterArtistHandler(mckArtist)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
	})
}

func TestDeleteArtistHandler(t *testing.T) {

	t.Run("when the artist owns releases, it should respond 409", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Delete = func(ctx context.Context, artistId string) error {
			return kdb.ErrConflict
		}

		e := echo.New()
		c, _ := httptestutil.Delete(e, "/api/artists/id-1")
		c.SetPath("/api/artists/:artistId")
		c.SetParamNames("artistId")
		c.SetParamValues("id-1")

		testee := handlers.DeleteArtistHandler(mckArtist, "artistId")
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusConflict {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusConflict)
		}
	})
}

func TestFindSimilarArtistHandler(t *testing.T) {

	t.Run("when name is given, candidates should be returned", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.FindSimilar = func(ctx context.Context, name string) ([]kdb.ArtistSimilarity, error) {
			return []kdb.ArtistSimilarity{
				{
					Artist:      kdb.Artist{ArtistId: "id-1", Name: "DJ Quake"},
					MatchedName: "DJ Quake", Similarity: 0.9,
				},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/artists/similar?name=DJ+Quakee")

		testee := handlers.FindSimilarArtistHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := []apiartists.Similarity{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if len(actual) != 1 || actual[0].Artist.ArtistId != "id-1" {
			t.Errorf("unmatch: %+v", actual)
		}
	})

	t.Run("when name is not given, it should respond 400", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/artists/similar")

		testee := handlers.FindSimilarArtistHandler(mckArtist)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
	})
}

func TestImportExportArtists(t *testing.T) {

	t.Run("import should register all rows in one batch", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.RegisterAll = func(ctx context.Context, specs []kdb.ArtistSpec, force bool) ([]string, error) {
			ids := make([]string, len(specs))
			for i, spec := range specs {
				ids[i] = "id-" + spec.Name
			}
			return ids, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/artists/import",
			strings.NewReader("name,country\nDJ Quake,AR\nLuna Park,BR\n"),
			httptestutil.ContentType("text/csv"),
		)

		testee := handlers.ImportArtistsHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code %d != %d", respRec.Result().StatusCode, http.StatusOK)
		}
		if mckArtist.Calls.RegisterAll.Times() != 1 {
			t.Errorf("RegisterAll should be called once, got %d", mckArtist.Calls.RegisterAll.Times())
		}
		if len(mckArtist.Calls.RegisterAll[0].Specs) != 2 {
			t.Errorf("unmatch specs: %+v", mckArtist.Calls.RegisterAll[0].Specs)
		}
	})

	t.Run("export should write all artists as CSV", func(t *testing.T) {
		mckArtist := dbmock.NewArtistInterface()
		mckArtist.Impl.Find = func(ctx context.Context, name string) ([]string, error) {
			return []string{"id-1"}, nil
		}
		mckArtist.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Artist, error) {
			return map[string]*kdb.Artist{
				"id-1": {ArtistId: "id-1", Name: "DJ Quake", Country: "AR"},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/artists/export.csv")

		testee := handlers.ExportArtistsHandler(mckArtist)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if ctype := respRec.Header().Get("Content-Type"); ctype != "text/csv" {
			t.Errorf("unmatch content type: %s", ctype)
		}
		if !strings.Contains(respRec.Body.String(), "DJ Quake") {
			t.Errorf("body should contain the artist: %s", respRec.Body.String())
		}
	})
}
