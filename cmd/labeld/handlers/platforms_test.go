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
	apiplatforms "github.com/tonearm/labeld/pkg/api/types/platforms"
	kdb "github.com/tonearm/labeld/pkg/db"
	dbmock "github.com/tonearm/labeld/pkg/db/mocks"

	"github.com/tonearm/labeld/cmd/labeld/handlers"
)

func TestSubmitPlatformHandler(t *testing.T) {

	t.Run("when the platform is known, the request should be submitted", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()
		mckPlatform.Impl.Submit = func(ctx context.Context, releaseId string, platform kdb.PlatformName) error {
			return nil
		}
		mckPlatform.Impl.ListByRelease = func(ctx context.Context, releaseId string) ([]kdb.PlatformRequest, error) {
			return []kdb.PlatformRequest{
				{ReleaseId: releaseId, Platform: kdb.YouTube, Status: kdb.Pending},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Post(e, "/api/releases/rel-1/platforms/youtube", nil)
		c.SetPath("/api/releases/:releaseId/platforms/:platform")
		c.SetParamNames("releaseId", "platform")
		c.SetParamValues("rel-1", "youtube")

		testee := handlers.SubmitPlatformHandler(mckPlatform, "releaseId", "platform")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := []apiplatforms.Detail{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if len(actual) != 1 || actual[0].Platform != "youtube" || actual[0].Status != "pending" {
			t.Errorf("unmatch: %+v", actual)
		}

		if mckPlatform.Calls.Submit[0].Platform != kdb.YouTube {
			t.Errorf("unmatch platform: %s", mckPlatform.Calls.Submit[0].Platform)
		}
	})

	t.Run("when the platform is unknown, it should respond 400", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/releases/rel-1/platforms/myspace", nil)
		c.SetPath("/api/releases/:releaseId/platforms/:platform")
		c.SetParamNames("releaseId", "platform")
		c.SetParamValues("rel-1", "myspace")

		testee := handlers.SubmitPlatformHandler(mckPlatform, "releaseId", "platform")
		err := testee(c)

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error code:%d, expected:%d", echoErr.Code, http.StatusBadRequest)
		}
	})

	t.Run("when the release is draft, it should respond 409", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()
		mckPlatform.Impl.Submit = func(ctx context.Context, releaseId string, platform kdb.PlatformName) error {
			return kdb.ErrConflict
		}

		e := echo.New()
		c, _ := httptestutil.Post(e, "/api/releases/rel-1/platforms/youtube", nil)
		c.SetPath("/api/releases/:releaseId/platforms/:platform")
		c.SetParamNames("releaseId", "platform")
		c.SetParamValues("rel-1", "youtube")

		testee := handlers.SubmitPlatformHandler(mckPlatform, "releaseId", "platform")
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

func TestSetPlatformStatusHandler(t *testing.T) {

	t.Run("status and note should be passed to the database", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()
		mckPlatform.Impl.SetStatus = func(ctx context.Context, releaseId string, platform kdb.PlatformName, status kdb.PlatformStatus, note string) error {
			return nil
		}
		mckPlatform.Impl.ListByRelease = func(ctx context.Context, releaseId string) ([]kdb.PlatformRequest, error) {
			return []kdb.PlatformRequest{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/releases/rel-1/platforms/tiktok",
			strings.NewReader(`{"status": "rejected", "note": "artwork rejected"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/releases/:releaseId/platforms/:platform")
		c.SetParamNames("releaseId", "platform")
		c.SetParamValues("rel-1", "tiktok")

		testee := handlers.SetPlatformStatusHandler(mckPlatform, "releaseId", "platform")
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		call := mckPlatform.Calls.SetStatus[0]
		if call.Platform != kdb.TikTok || call.Status != kdb.Rejected || call.Note != "artwork rejected" {
			t.Errorf("unmatch call: %+v", call)
		}
	})

	t.Run("when the transition is illegal, it should respond 409", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()
		mckPlatform.Impl.SetStatus = func(ctx context.Context, releaseId string, platform kdb.PlatformName, status kdb.PlatformStatus, note string) error {
			return kdb.NewErrInvalidTransition(string(kdb.Uploaded), string(kdb.Pending))
		}

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/releases/rel-1/platforms/youtube",
			strings.NewReader(`{"status": "pending"}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetPath("/api/releases/:releaseId/platforms/:platform")
		c.SetParamNames("releaseId", "platform")
		c.SetParamValues("rel-1", "youtube")

		testee := handlers.SetPlatformStatusHandler(mckPlatform, "releaseId", "platform")
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

func TestPlatformSummaryHandler(t *testing.T) {

	t.Run("summary counts should be converted to JSON", func(t *testing.T) {
		mckPlatform := dbmock.NewPlatformInterface()
		mckPlatform.Impl.Summary = func(ctx context.Context) (kdb.PlatformSummary, error) {
			return kdb.PlatformSummary{
				kdb.YouTube: {kdb.Pending: 2, kdb.Uploaded: 5},
				kdb.Flow:    {kdb.Rejected: 1},
			}, nil
		}

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/platforms/summary")

		testee := handlers.PlatformSummaryHandler(mckPlatform)
		if err := testee(c); err != nil {
			t.Fatal(err)
		}

		actual := apiplatforms.Summary{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &actual); err != nil {
			t.Fatal(err)
		}
		if actual["youtube"]["uploaded"] != 5 || actual["flow"]["rejected"] != 1 {
			t.Errorf("unmatch: %+v", actual)
		}
	})
}
