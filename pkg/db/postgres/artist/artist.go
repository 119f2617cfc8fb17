package artist

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
	kpgerr "github.com/tonearm/labeld/pkg/db/postgres/errors"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	"github.com/tonearm/labeld/pkg/dedup"
	xe "github.com/tonearm/labeld/pkg/errors"
	"github.com/tonearm/labeld/pkg/utils"
)

type artistPG struct { // implements kdb.ArtistInterface
	pool      kpool.Pool
	threshold float64
}

type Option func(*artistPG) *artistPG

// WithThreshold overrides the similarity ratio at which
// registration is refused.
func WithThreshold(threshold float64) Option {
	return func(a *artistPG) *artistPG {
		a.threshold = threshold
		return a
	}
}

func New(pool kpool.Pool, options ...Option) *artistPG {
	a := &artistPG{pool: pool, threshold: dedup.DefaultThreshold}
	for _, opt := range options {
		a = opt(a)
	}
	return a
}

func (m *artistPG) Register(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
	artistIds, err := m.RegisterAll(ctx, []kdb.ArtistSpec{spec}, force)
	if err != nil {
		return "", err
	}
	return artistIds[0], nil
}

func (m *artistPG) RegisterAll(ctx context.Context, specs []kdb.ArtistSpec, force bool) ([]string, error) {
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := m.pool.BeginTx(
		ctx, pgx.TxOptions{IsoLevel: pgx.Serializable},
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// Keep similarity checking deterministic against concurrent registration.
	if _, err := tx.Exec(ctx, `lock table "artist" in EXCLUSIVE mode;`); err != nil {
		return nil, xe.Wrap(err)
	}

	artistIds := make([]string, 0, len(specs))
	for _, spec := range specs {
		artistId, err := registerInTx(ctx, tx, m.threshold, spec, force)
		if err != nil {
			return nil, err
		}
		artistIds = append(artistIds, artistId)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return artistIds, nil
}

// registerInTx inserts one artist within tx.
//
// The similarity scan runs in the same transaction, so earlier
// inserts of the same batch also gate later ones.
func registerInTx(ctx context.Context, tx kpool.Tx, threshold float64, spec kdb.ArtistSpec, force bool) (string, error) {
	if !force {
		candidates, err := findSimilar(ctx, tx, threshold, spec.Name)
		if err != nil {
			return "", xe.Wrap(err)
		}
		if 0 < len(candidates) {
			return "", fmt.Errorf(
				"artist '%s': %w", spec.Name, kdb.NewErrSimilarArtistExists(candidates),
			)
		}
	}

	artistId := uuid.NewString()
	if _, err := tx.Exec(
		ctx,
		`
		with "new_artist" as (
			insert into "artist" ("artist_id", "name", "country", "email")
			values ($1, $2, $3, $4)
			returning "artist_id"
		)
		insert into "artist_alias" ("artist_id", "alias")
		select "artist_id", unnest($5::varchar[]) as "alias"
		from "new_artist"
		`,
		artistId, spec.Name, spec.Country, spec.Email, spec.Aliases,
	); err != nil {
		return "", xe.Wrap(kpgerr.AsDomainError(
			err, "artist", fmt.Sprintf("name='%s'", spec.Name),
		))
	}
	return artistId, nil
}

func (m *artistPG) Get(ctx context.Context, artistIds []string) (map[string]*kdb.Artist, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return getArtists(ctx, conn, artistIds)
}

// getArtists fetches artists (with aliases) by ids.
//
// Shared with other aggregates which resolve artist details.
func getArtists(ctx context.Context, conn kpool.Queryer, artistIds []string) (map[string]*kdb.Artist, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"artist_id", "name", "country", "email",
			"created_at", "updated_at"
		from "artist" where "artist_id" = any($1)
		`,
		artistIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	artists := map[string]*kdb.Artist{}
	for rows.Next() {
		a := kdb.Artist{}
		if err := rows.Scan(
			&a.ArtistId, &a.Name, &a.Country, &a.Email,
			&a.Created, &a.Updated,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		artists[a.ArtistId] = &a
	}
	rows.Close()

	aliases, err := conn.Query(
		ctx,
		`
		select "artist_id", "alias" from "artist_alias"
		where "artist_id" = any($1)
		order by "artist_id", "alias"
		`,
		utils.KeysOf(artists),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer aliases.Close()

	for aliases.Next() {
		var artistId, alias string
		if err := aliases.Scan(&artistId, &alias); err != nil {
			return nil, xe.Wrap(err)
		}
		if a, ok := artists[artistId]; ok {
			a.Aliases = append(a.Aliases, alias)
		}
	}

	return artists, nil
}

func (m *artistPG) Find(ctx context.Context, name string) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		with "by_alias" as (
			select distinct "artist_id" from "artist_alias"
			where position(lower($1) in lower("alias")) > 0
		)
		select "artist_id" from "artist"
		where position(lower($1) in lower("name")) > 0
		   or "artist_id" in (table "by_alias")
		order by "name"
		`,
		name,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	artistIds := []string{}
	for rows.Next() {
		var artistId string
		if err := rows.Scan(&artistId); err != nil {
			return nil, xe.Wrap(err)
		}
		artistIds = append(artistIds, artistId)
	}
	return artistIds, nil
}

func (m *artistPG) Update(ctx context.Context, artistId string, spec kdb.ArtistSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	found := 0
	if err := tx.QueryRow(
		ctx,
		`
		with "artist" as (
			select "artist_id" from "artist" where "artist_id" = $1
			for update of "artist"
		)
		select count("artist_id") from "artist"
		`,
		artistId,
	).Scan(&found); err != nil {
		return xe.Wrap(err)
	}
	if found <= 0 {
		return kpgerr.Missing{
			Table:    "artist",
			Identity: fmt.Sprintf("artist_id='%s'", artistId),
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		with "updated" as (
			update "artist"
			set "name" = $2, "country" = $3, "email" = $4, "updated_at" = now()
			where "artist_id" = $1
		),
		"cleared" as (
			delete from "artist_alias" where "artist_id" = $1
		)
		insert into "artist_alias" ("artist_id", "alias")
		select $1 as "artist_id", unnest($5::varchar[]) as "alias"
		`,
		artistId, spec.Name, spec.Country, spec.Email, spec.Aliases,
	); err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "artist", fmt.Sprintf("name='%s'", spec.Name),
		))
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *artistPG) Delete(ctx context.Context, artistId string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	owning := 0
	if err := tx.QueryRow(
		ctx,
		`select count("release_id") from "release_owner" where "artist_id" = $1`,
		artistId,
	).Scan(&owning); err != nil {
		return xe.Wrap(err)
	}
	if 0 < owning {
		return kpgerr.InUse{
			Table:    "artist",
			Identity: fmt.Sprintf("artist_id='%s' (owns %d releases)", artistId, owning),
		}
	}

	tag, err := tx.Exec(
		ctx,
		`
		with "cleared" as (
			delete from "artist_alias" where "artist_id" = $1
		)
		delete from "artist" where "artist_id" = $1
		`,
		artistId,
	)
	if err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "artist", fmt.Sprintf("artist_id='%s'", artistId),
		))
	}
	if tag.RowsAffected() <= 0 {
		return kpgerr.Missing{
			Table:    "artist",
			Identity: fmt.Sprintf("artist_id='%s'", artistId),
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *artistPG) FindSimilar(ctx context.Context, name string) ([]kdb.ArtistSimilarity, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return findSimilar(ctx, conn, m.threshold, name)
}

// findSimilar scans registered names and aliases and measures
// their similarity to the given name.
//
// Distance is computed on this side, not in SQL; catalogs are small
// enough (thousands of names) that one scan is cheaper than
// maintaining a trigram index.
func findSimilar(ctx context.Context, conn kpool.Queryer, threshold float64, name string) ([]kdb.ArtistSimilarity, error) {
	rows, err := conn.Query(
		ctx,
		`
		select "artist_id", "name" from "artist"
		union all
		select "artist_id", "alias" as "name" from "artist_alias"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	type match struct {
		artistId    string
		matchedName string
		similarity  float64
	}

	best := map[string]match{}
	for rows.Next() {
		var artistId, candidate string
		if err := rows.Scan(&artistId, &candidate); err != nil {
			return nil, xe.Wrap(err)
		}

		sim := dedup.Similarity(name, candidate)
		if sim < threshold {
			continue
		}
		if prev, ok := best[artistId]; ok && sim <= prev.similarity {
			continue
		}
		best[artistId] = match{
			artistId: artistId, matchedName: candidate, similarity: sim,
		}
	}
	rows.Close()

	if len(best) == 0 {
		return []kdb.ArtistSimilarity{}, nil
	}

	artists, err := getArtists(ctx, conn, utils.KeysOf(best))
	if err != nil {
		return nil, err
	}

	found := make([]kdb.ArtistSimilarity, 0, len(best))
	for artistId, mt := range best {
		a, ok := artists[artistId]
		if !ok {
			continue
		}
		found = append(found, kdb.ArtistSimilarity{
			Artist:      *a,
			MatchedName: mt.matchedName,
			Similarity:  mt.similarity,
		})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Similarity != found[j].Similarity {
			return found[j].Similarity < found[i].Similarity
		}
		return found[i].Artist.Name < found[j].Artist.Name
	})

	return found, nil
}
