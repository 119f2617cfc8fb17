package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/db/postgres/account"
	"github.com/tonearm/labeld/pkg/db/postgres/artist"
	"github.com/tonearm/labeld/pkg/db/postgres/employee"
	"github.com/tonearm/labeld/pkg/db/postgres/platform"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	"github.com/tonearm/labeld/pkg/db/postgres/release"
	"github.com/tonearm/labeld/pkg/db/postgres/schema"
	xe "github.com/tonearm/labeld/pkg/errors"
)

type labelDBPostgres struct { // implements kdb.LabelDatabase
	pool      *pgxpool.Pool
	artists   kdb.ArtistInterface
	releases  kdb.ReleaseInterface
	platforms kdb.PlatformInterface
	employees kdb.EmployeeInterface
	accounts  kdb.AccountInterface
	schema    kdb.SchemaInterface

	schemaRepository string
	artistOptions    []artist.Option
}

type Option func(*labelDBPostgres) *labelDBPostgres

// WithSchemaRepository lets the database track the schema
// repository at the given path.
//
// Without this option, schema versioning is unavailable.
func WithSchemaRepository(path string) Option {
	return func(d *labelDBPostgres) *labelDBPostgres {
		d.schemaRepository = path
		return d
	}
}

// WithArtistSimilarityThreshold overrides the ratio at which
// artist registration is refused as a duplicate.
func WithArtistSimilarityThreshold(threshold float64) Option {
	return func(d *labelDBPostgres) *labelDBPostgres {
		d.artistOptions = append(d.artistOptions, artist.WithThreshold(threshold))
		return d
	}
}

func New(ctx context.Context, url string, options ...Option) (*labelDBPostgres, error) {
	d := &labelDBPostgres{}
	for _, opt := range options {
		d = opt(d)
	}

	pgpool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	d.pool = pgpool

	pool := kpool.Wrap(pgpool)
	d.artists = artist.New(pool, d.artistOptions...)
	d.releases = release.New(pool)
	d.platforms = platform.New(pool)
	d.employees = employee.New(pool)
	d.accounts = account.New(pool)

	if d.schemaRepository != "" {
		d.schema = schema.New(pool, d.schemaRepository)
	} else {
		d.schema = schema.Null()
	}

	return d, nil
}

func (d *labelDBPostgres) Artists() kdb.ArtistInterface     { return d.artists }
func (d *labelDBPostgres) Releases() kdb.ReleaseInterface   { return d.releases }
func (d *labelDBPostgres) Platforms() kdb.PlatformInterface { return d.platforms }
func (d *labelDBPostgres) Employees() kdb.EmployeeInterface { return d.employees }
func (d *labelDBPostgres) Accounts() kdb.AccountInterface   { return d.accounts }
func (d *labelDBPostgres) Schema() kdb.SchemaInterface      { return d.schema }

func (d *labelDBPostgres) Close() error {
	d.pool.Close()
	return nil
}
