package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	httptestutil "github.com/tonearm/labeld/internal/testutils/http"
	apireleases "github.com/tonearm/labeld/pkg/api/types/releases"
	kdb "github.com/tonearm/labeld/pkg/db"
	dbmock "github.com/tonearm/labeld/pkg/db/mocks"

	"github.com/tonearm/labeld/cmd/labeld/handlers"
)

func TestFindReleaseHandler(t *testing.T) {

	t.Run("query parameters should be passed to the database", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()
		mckRelease.Impl.Find = func(ctx context.Context, query kdb.ReleaseFindQuery) ([]string, error) {
			return []string{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(
			e, "/api/releases?artistId=id-1&status=scheduled&platform=youtube&platformStatus=pending",
		)

		testee := handlers.FindReleaseHandler(mckRelease)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		if mckRelease.Calls.Find.Times() != 1 {
			t.Fatalf("Find should be called once, got %d", mckRelease.Calls.Find.Times())
		}
		query := mckRelease.Calls.Find[0].Query
		if query.ArtistId != "id-1" {
			t.Errorf("unmatch artistId: %s", query.ArtistId)
		}
		if query.Status == nil || *query.Status != kdb.Scheduled {
			t.Errorf("unmatch status: %v", query.Status)
		}
		if query.Platform != kdb.YouTube {
			t.Errorf("unmatch platform: %s", query.Platform)
		}
		if query.PlatformStatus == nil || *query.PlatformStatus != kdb.Pending {
			t.Errorf("unmatch platform status: %v", query.PlatformStatus)
		}
	})

	t.Run("when status is unknown, it should respond 400", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/releases?status=gone")

		testee := handlers.FindReleaseHandler(mckRelease)
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

func TestRegisterReleaseHandler(t *testing.T) {

	t.Run("when the spec is fine, the release should be registered as draft", func(t *testing.T) {
		releaseDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		mckRelease := dbmock.NewReleaseInterface()
		mckRelease.Impl.Register = func(ctx context.Context, spec kdb.ReleaseSpec) (string, error) {
			return "rel-1", nil
		}
		mckRelease.Impl.Get = func(ctx context.Context, ids []string) (map[string]*kdb.Release, error) {
			return map[string]*kdb.Release{
				"rel-1": {
					ReleaseId: "rel-1", Title: "First Light", CatalogNumber: "CAT-001",
					Kind: kdb.Single, Status: kdb.Draft, ReleaseDate: &releaseDate,
					Tracks: []kdb.Track{{TrackNo: 1, Title: "First Light"}},
					Owners: []kdb.Owner{{ArtistId: "id-1", Credit: kdb.PrimaryArtist}},
				},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/releases",
			strings.NewReader(`{
				"title": "First Light", "catalogNumber": "CAT-001", "kind": "single",
				"releaseDate": "2024-06-01",
				"tracks": [{"trackNo": 1, "title": "First Light"}],
				"owners": [{"artistId": "id-1", "credit": "primary"}]
			}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterReleaseHandler(mckRelease)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := apireleases.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if actual.Status != "draft" || actual.ReleaseDate != "2024-06-01" {
			t.Errorf("unmatch: %+v", actual)
		}

		spec := mckRelease.Calls.Register[0].Spec
		if spec.ReleaseDate == nil || !spec.ReleaseDate.Equal(releaseDate) {
			t.Errorf("unmatch release date: %v", spec.ReleaseDate)
		}
	})

	t.Run("when the release date is malformed, it should respond 400", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/releases",
			strings.NewReader(`{"title": "x", "catalogNumber": "C", "kind": "single", "releaseDate": "June 2024", "owners": [{"artistId": "id-1", "credit": "primary"}]}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterReleaseHandler(mckRelease)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
	})

	t.Run("when an owner is not registered, it should respond 400", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()
		mckRelease.Impl.Register = func(ctx context.Context, spec kdb.ReleaseSpec) (string, error) {
			return "", kdb.ErrMissing
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/releases",
			strings.NewReader(`{"title": "x", "catalogNumber": "C", "kind": "single", "owners": [{"artistId": "id-gone", "credit": "primary"}]}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterReleaseHandler(mckRelease)
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
	})

	t.Run("when the body has an unknown field, it should respond 400", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/releases",
			strings.NewReader(`{"title": "x", "catalogNumber": "C", "kind": "single", "owners": [{"artistId": "id-1", "credit": "primary"}], "typo": true}`),
			httptestutil.ContentType("application/json"),
		)

		testee := handlers.RegisterReleaseHandler(mckRelease)
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

func TestSetReleaseStatusHandler(t *testing.T) {

	t.Run("when the transition is illegal, it should respond 409", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()
		mckRelease.Impl.SetStatus = func(ctx context.Context, releaseId string, status kdb.ReleaseStatus) error {
			return kdb.NewErrInvalidTransition(string(kdb.Draft), string(kdb.Released))
		}

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/releases/rel-1/status",
			strings.NewReader(`{"status": "released"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/releases/:releaseId/status")
		c.SetParamNames("releaseId")
		c.SetParamValues("rel-1")

		testee := handlers.SetReleaseStatusHandler(mckRelease, "releaseId")
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusConflict {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusConflict)
		}
	})

	t.Run("when the status is unknown, it should respond 400", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/releases/rel-1/status",
			strings.NewReader(`{"status": "gone"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/releases/:releaseId/status")
		c.SetParamNames("releaseId")
		c.SetParamValues("rel-1")

		testee := handlers.SetReleaseStatusHandler(mckRelease, "releaseId")
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

func TestDeleteReleaseHandler(t *testing.T) {

	t.Run("when the release is not draft, it should respond 409", func(t *testing.T) {
		mckRelease := dbmock.NewReleaseInterface()
		mckRelease.Impl.Delete = func(ctx context.Context, releaseId string) error {
			return kdb.ErrConflict
		}

		e := echo.New()
		c, _ := httptestutil.Delete(e, "/api/releases/rel-1")
		c.SetPath("/api/releases/:releaseId")
		c.SetParamNames("releaseId")
		c.SetParamValues("rel-1")

		testee := handlers.DeleteReleaseHandler(mckRelease, "releaseId")
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
