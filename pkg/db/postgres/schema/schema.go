package schema

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	xe "github.com/tonearm/labeld/pkg/errors"
)

type schemaPG struct { // implements kdb.SchemaInterface
	pool       kpool.Pool
	repository string
}

// New tracks schema revisions found in the repository directory.
//
// The repository holds one subdirectory per revision, named by its
// number, each containing the .sql files of that revision.
func New(pool kpool.Pool, repository string) *schemaPG {
	return &schemaPG{pool: pool, repository: repository}
}

type revision struct {
	number int
	root   string
}

// apply runs every .sql file under the revision directory, in
// lexical order.
func (r revision) apply(ctx context.Context, conn kpool.Queryer) error {
	return filepath.WalkDir(r.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}

		query, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

func (s *schemaPG) Version(ctx context.Context) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return -1, xe.Wrap(err)
	}
	defer conn.Release()

	var version int
	if err := conn.QueryRow(
		ctx, `select max("version") from "schema_version"`,
	).Scan(&version); err != nil {
		// the version table itself appears in revision 1
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
			if pgerr.Code == pgerrcode.UndefinedTable {
				return 0, nil
			}
		}
		return -1, xe.Wrap(err)
	}
	return version, nil
}

func (s *schemaPG) Upgrade(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	revisions, err := s.scanRepository()
	if err != nil {
		return err
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	for _, rev := range revisions {
		if rev.number <= current {
			continue
		}
		if err := rev.apply(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx,
			`insert into "schema_version" ("version") values ($1)`,
			rev.number,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

// Context returns a context canceled as soon as the database schema
// falls behind the repository, now or while watching the repository
// for new revisions.
func (s *schemaPG) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		cancel(err)
		return cctx, func() {}
	}

	check := func() {
		revisions, err := s.scanRepository()
		if err != nil {
			cancel(fmt.Errorf("cannot read schema repository: %w", err))
			return
		}
		current, err := s.Version(ctx)
		if err != nil {
			cancel(fmt.Errorf("cannot get schema version: %w", err))
			return
		}

		for _, rev := range revisions {
			if current < rev.number {
				cancel(fmt.Errorf(
					"schema is outdated: %d (in database) < %d (in repository)",
					current, rev.number,
				))
				return
			}
		}
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case ev := <-w.Events:
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if s.repository != filepath.Dir(ev.Name) {
					continue
				}
				check()
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

// scanRepository lists the revisions in the repository,
// oldest first. Entries which are not numbered directories
// are ignored.
func (s *schemaPG) scanRepository() ([]revision, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, err
	}

	revisions := make([]revision, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		number, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		revisions = append(revisions, revision{
			number: number,
			root:   filepath.Join(s.repository, entry.Name()),
		})
	}
	slices.SortFunc(revisions, func(a, b revision) int {
		return cmp.Compare(a.number, b.number)
	})

	return revisions, nil
}

// Null is the schema tracker used when no repository is configured:
// upgrades are refused and no version is known.
func Null() *nullSchema {
	return &nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(ctx context.Context) error {
	return errors.New("schema repository is not configured")
}

func (nullSchema) Version(ctx context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
