package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/tonearm/labeld/cmd/labeld/handlers"
	"github.com/tonearm/labeld/pkg/auth"
	kcs "github.com/tonearm/labeld/pkg/configs/server"
	kdb "github.com/tonearm/labeld/pkg/db"
	kpg "github.com/tonearm/labeld/pkg/db/postgres"
	"github.com/tonearm/labeld/pkg/utils/echoutil"
	"github.com/tonearm/labeld/pkg/utils/filewatch"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	schemaRepo := flag.String("schema-repo", "", "schema repository path. overrides the config file")
	flag.Parse()

	e := echo.New()

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	tokenTTL, err := conf.TokenLifetime()
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	secret, err := os.ReadFile(conf.TokenSecretFile)
	if err != nil {
		log.Fatalf("can not read token secret: %s", err)
	}
	secret = []byte(strings.TrimSpace(string(secret)))

	// restart when the config file changes
	{
		wctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(wctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	repository := conf.SchemaRepository
	if *schemaRepo != "" {
		repository = *schemaRepo
	}

	ctx := context.Background()
	db, err := kpg.New(
		ctx, conf.DBURI,
		kpg.WithSchemaRepository(repository),
	)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	// stop serving when the schema gets older than the repository
	{
		sctx, scancel := db.Schema().Context(ctx)
		defer scancel()
		ctx = sctx
		context.AfterFunc(ctx, func() {
			log.Printf("schema is outdated: %v. quit to wait for upgrade.", context.Cause(ctx))
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by schema update: %s", err)
			}
		})
	}

	issuer := auth.NewIssuer(secret, tokenTTL)

	// 5 login attempts per minute per login name
	throttle := auth.NewThrottle(rate.Every(12*time.Second), 5)

	authed := auth.Middleware(issuer)
	viewer := auth.RequireRole(kdb.Viewer)
	aAndR := auth.RequireRole(kdb.AAndR)
	admin := auth.RequireRole(kdb.Admin)

	api := e.Group("/api")
	api.POST("/auth/login", handlers.LoginHandler(db.Accounts(), issuer, throttle, tokenTTL))

	{
		artistId := "artistId"
		g := api.Group("/artists", authed)
		g.GET("", handlers.FindArtistHandler(db.Artists()), viewer)
		g.GET("/similar", handlers.FindSimilarArtistHandler(db.Artists()), aAndR)
		g.GET("/export.csv", handlers.ExportArtistsHandler(db.Artists()), aAndR)
		g.POST("/import", handlers.ImportArtistsHandler(db.Artists()), aAndR)
		g.GET("/:artistId", handlers.GetArtistHandler(db.Artists(), artistId), viewer)
		g.POST("", handlers.RegisterArtistHandler(db.Artists()), aAndR)
		g.PUT("/:artistId", handlers.UpdateArtistHandler(db.Artists(), artistId), aAndR)
		g.DELETE("/:artistId", handlers.DeleteArtistHandler(db.Artists(), artistId), aAndR)
	}

	{
		releaseId := "releaseId"
		platform := "platform"
		g := api.Group("/releases", authed)
		g.GET("", handlers.FindReleaseHandler(db.Releases()), viewer)
		g.GET("/export.csv", handlers.ExportReleasesHandler(db.Releases(), db.Artists()), aAndR)
		g.POST("/import", handlers.ImportReleasesHandler(db.Releases(), db.Artists()), aAndR)
		g.GET("/:releaseId", handlers.GetReleaseHandler(db.Releases(), releaseId), viewer)
		g.POST("", handlers.RegisterReleaseHandler(db.Releases()), aAndR)
		g.PUT("/:releaseId", handlers.UpdateReleaseHandler(db.Releases(), releaseId), aAndR)
		g.PUT("/:releaseId/status", handlers.SetReleaseStatusHandler(db.Releases(), releaseId), aAndR)
		g.DELETE("/:releaseId", handlers.DeleteReleaseHandler(db.Releases(), releaseId), aAndR)

		g.GET("/:releaseId/platforms", handlers.ListPlatformHandler(db.Platforms(), releaseId), viewer)
		g.POST("/:releaseId/platforms/:platform", handlers.SubmitPlatformHandler(db.Platforms(), releaseId, platform), aAndR)
		g.PUT("/:releaseId/platforms/:platform", handlers.SetPlatformStatusHandler(db.Platforms(), releaseId, platform), aAndR)
	}

	api.GET("/platforms/summary", handlers.PlatformSummaryHandler(db.Platforms()), authed, viewer)

	{
		employeeId := "employeeId"
		g := api.Group("/employees", authed)
		g.GET("", handlers.FindEmployeeHandler(db.Employees()), viewer)
		g.GET("/:employeeId", handlers.GetEmployeeHandler(db.Employees(), employeeId), viewer)
		g.GET("/:employeeId/subordinates", handlers.SubordinatesHandler(db.Employees(), employeeId), viewer)
		g.POST("", handlers.RegisterEmployeeHandler(db.Employees()), admin)
		g.PUT("/:employeeId", handlers.UpdateEmployeeHandler(db.Employees(), employeeId), admin)
		g.PUT("/:employeeId/deactivate", handlers.DeactivateEmployeeHandler(db.Employees(), employeeId), admin)
	}

	{
		login := "login"
		g := api.Group("/accounts", authed)
		g.GET("", handlers.FindAccountHandler(db.Accounts()), admin)
		g.POST("", handlers.RegisterAccountHandler(db.Accounts()), admin)

		// admins change any password, others their own
		g.PUT("/:login/password", handlers.ChangePasswordHandler(db.Accounts(), login), viewer)
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}
