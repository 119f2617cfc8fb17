package release

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
	kpgerr "github.com/tonearm/labeld/pkg/db/postgres/errors"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	xe "github.com/tonearm/labeld/pkg/errors"
	"github.com/tonearm/labeld/pkg/utils"
)

type releasePG struct { // implements kdb.ReleaseInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *releasePG {
	return &releasePG{pool: pool}
}

func releaseDate(spec kdb.ReleaseSpec) pgtype.Date {
	if spec.ReleaseDate == nil {
		return pgtype.Date{Status: pgtype.Null}
	}
	return pgtype.Date{Time: *spec.ReleaseDate, Status: pgtype.Present}
}

func (m *releasePG) Register(ctx context.Context, spec kdb.ReleaseSpec) (string, error) {
	releaseIds, err := m.RegisterAll(ctx, []kdb.ReleaseSpec{spec})
	if err != nil {
		return "", err
	}
	return releaseIds[0], nil
}

func (m *releasePG) RegisterAll(ctx context.Context, specs []kdb.ReleaseSpec) ([]string, error) {
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

	releaseIds := make([]string, 0, len(specs))
	for _, spec := range specs {
		releaseId, err := registerInTx(ctx, tx, spec)
		if err != nil {
			return nil, fmt.Errorf("release '%s': %w", spec.CatalogNumber, err)
		}
		releaseIds = append(releaseIds, releaseId)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return releaseIds, nil
}

// registerInTx inserts one release (with tracks and owners) within tx.
func registerInTx(ctx context.Context, tx kpool.Tx, spec kdb.ReleaseSpec) (string, error) {
	if err := verifyOwners(ctx, tx, spec.Owners); err != nil {
		return "", err
	}

	releaseId := uuid.NewString()
	if _, err := tx.Exec(
		ctx,
		`
		insert into "release" ("release_id", "title", "catalog_number", "kind", "release_date", "status")
		values ($1, $2, $3, $4, $5, $6)
		`,
		releaseId, spec.Title, spec.CatalogNumber, spec.Kind,
		releaseDate(spec), kdb.Draft,
	); err != nil {
		return "", xe.Wrap(kpgerr.AsDomainError(
			err, "release", fmt.Sprintf("catalog_number='%s'", spec.CatalogNumber),
		))
	}

	if err := insertTracksAndOwners(ctx, tx, releaseId, spec); err != nil {
		return "", err
	}
	return releaseId, nil
}

// verifyOwners makes sure every owning artist is registered.
func verifyOwners(ctx context.Context, conn kpool.Queryer, owners []kdb.Owner) error {
	artistIds := utils.Map(owners, func(o kdb.Owner) string { return o.ArtistId })

	known := 0
	if err := conn.QueryRow(
		ctx,
		`select count("artist_id") from "artist" where "artist_id" = any($1)`,
		artistIds,
	).Scan(&known); err != nil {
		return xe.Wrap(err)
	}
	if known != len(artistIds) {
		return kpgerr.Missing{
			Table:    "artist",
			Identity: fmt.Sprintf("some of owners %v are not registered", artistIds),
		}
	}
	return nil
}

func insertTracksAndOwners(ctx context.Context, tx kpool.Tx, releaseId string, spec kdb.ReleaseSpec) error {
	nTracks := len(spec.Tracks)
	trackNos := make([]int, nTracks)
	trackTitles := make([]string, nTracks)
	trackIsrcs := make([]string, nTracks)
	trackDurations := make([]int, nTracks)
	for i, tr := range spec.Tracks {
		trackNos[i] = tr.TrackNo
		trackTitles[i] = tr.Title
		trackIsrcs[i] = tr.Isrc
		trackDurations[i] = tr.DurationSeconds
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "track" ("release_id", "track_no", "title", "isrc", "duration_seconds")
		select
			$1 as "release_id",
			unnest($2::int[]) as "track_no",
			unnest($3::varchar[]) as "title",
			unnest($4::varchar[]) as "isrc",
			unnest($5::int[]) as "duration_seconds"
		`,
		releaseId, trackNos, trackTitles, trackIsrcs, trackDurations,
	); err != nil {
		return xe.Wrap(err)
	}

	nOwners := len(spec.Owners)
	ownerIds := make([]string, nOwners)
	ownerCredits := make([]string, nOwners)
	for i, o := range spec.Owners {
		ownerIds[i] = o.ArtistId
		ownerCredits[i] = string(o.Credit)
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "release_owner" ("release_id", "artist_id", "credit")
		select
			$1 as "release_id",
			unnest($2::uuid[]) as "artist_id",
			unnest($3::varchar[]) as "credit"
		`,
		releaseId, ownerIds, ownerCredits,
	); err != nil {
		return xe.Wrap(err)
	}

	return nil
}

func (m *releasePG) Get(ctx context.Context, releaseIds []string) (map[string]*kdb.Release, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	return getReleases(ctx, conn, releaseIds)
}

func getReleases(ctx context.Context, conn kpool.Queryer, releaseIds []string) (map[string]*kdb.Release, error) {
	rows, err := conn.Query(
		ctx,
		`
		select
			"release_id", "title", "catalog_number", "kind",
			"release_date", "status", "created_at", "updated_at"
		from "release" where "release_id" = any($1)
		`,
		releaseIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	releases := map[string]*kdb.Release{}
	for rows.Next() {
		r := kdb.Release{}
		date := pgtype.Date{}
		if err := rows.Scan(
			&r.ReleaseId, &r.Title, &r.CatalogNumber, &r.Kind,
			&date, &r.Status, &r.Created, &r.Updated,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		if date.Status == pgtype.Present {
			d := date.Time
			r.ReleaseDate = &d
		}
		releases[r.ReleaseId] = &r
	}
	rows.Close()

	found := utils.KeysOf(releases)

	tracks, err := conn.Query(
		ctx,
		`
		select "release_id", "track_no", "title", "isrc", "duration_seconds"
		from "track" where "release_id" = any($1)
		order by "release_id", "track_no"
		`,
		found,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tracks.Close()

	for tracks.Next() {
		var releaseId string
		tr := kdb.Track{}
		if err := tracks.Scan(
			&releaseId, &tr.TrackNo, &tr.Title, &tr.Isrc, &tr.DurationSeconds,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		if r, ok := releases[releaseId]; ok {
			r.Tracks = append(r.Tracks, tr)
		}
	}
	tracks.Close()

	owners, err := conn.Query(
		ctx,
		`
		select "release_id", "artist_id", "credit"
		from "release_owner" where "release_id" = any($1)
		order by "release_id", "artist_id"
		`,
		found,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer owners.Close()

	for owners.Next() {
		var releaseId string
		o := kdb.Owner{}
		if err := owners.Scan(&releaseId, &o.ArtistId, &o.Credit); err != nil {
			return nil, xe.Wrap(err)
		}
		if r, ok := releases[releaseId]; ok {
			r.Owners = append(r.Owners, o)
		}
	}

	return releases, nil
}

func (m *releasePG) Find(ctx context.Context, query kdb.ReleaseFindQuery) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	var status *string
	if query.Status != nil {
		s := string(*query.Status)
		status = &s
	}
	var platformStatus *string
	if query.PlatformStatus != nil {
		s := string(*query.PlatformStatus)
		platformStatus = &s
	}

	rows, err := conn.Query(
		ctx,
		`
		with
		"by_owner" as (
			select distinct "release_id" from "release_owner"
			where $1 = '' or "artist_id"::varchar = $1
		),
		"by_platform" as (
			select distinct "release_id" from "platform_request"
			where ($3 = '' or "platform" = $3)
			  and ($4::varchar is null or "status" = $4)
		)
		select "release_id" from "release"
		where "release_id" in (table "by_owner")
		  and ($2::varchar is null or "status" = $2)
		  and (
			($3 = '' and $4::varchar is null)
			or "release_id" in (table "by_platform")
		  )
		order by "catalog_number"
		`,
		query.ArtistId, status, string(query.Platform), platformStatus,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	releaseIds := []string{}
	for rows.Next() {
		var releaseId string
		if err := rows.Scan(&releaseId); err != nil {
			return nil, xe.Wrap(err)
		}
		releaseIds = append(releaseIds, releaseId)
	}
	return releaseIds, nil
}

func (m *releasePG) Update(ctx context.Context, releaseId string, spec kdb.ReleaseSpec) error {
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
		with "release" as (
			select "release_id" from "release" where "release_id" = $1
			for update of "release"
		)
		select count("release_id") from "release"
		`,
		releaseId,
	).Scan(&found); err != nil {
		return xe.Wrap(err)
	}
	if found <= 0 {
		return kpgerr.Missing{
			Table:    "release",
			Identity: fmt.Sprintf("release_id='%s'", releaseId),
		}
	}

	if err := verifyOwners(ctx, tx, spec.Owners); err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "release"
		set "title" = $2, "catalog_number" = $3, "kind" = $4,
		    "release_date" = $5, "updated_at" = now()
		where "release_id" = $1
		`,
		releaseId, spec.Title, spec.CatalogNumber, spec.Kind, releaseDate(spec),
	); err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "release", fmt.Sprintf("catalog_number='%s'", spec.CatalogNumber),
		))
	}

	if _, err := tx.Exec(
		ctx,
		`
		with "cleared_tracks" as (
			delete from "track" where "release_id" = $1
		)
		delete from "release_owner" where "release_id" = $1
		`,
		releaseId,
	); err != nil {
		return xe.Wrap(err)
	}

	if err := insertTracksAndOwners(ctx, tx, releaseId, spec); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *releasePG) SetStatus(ctx context.Context, releaseId string, status kdb.ReleaseStatus) error {
	if !status.Known() {
		return fmt.Errorf("%w: unknown release status: %s", kdb.ErrInvalidSpec, status)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var current kdb.ReleaseStatus
	if err := tx.QueryRow(
		ctx,
		`select "status" from "release" where "release_id" = $1 for update of "release"`,
		releaseId,
	).Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "release",
				Identity: fmt.Sprintf("release_id='%s'", releaseId),
			}
		}
		return xe.Wrap(err)
	}

	if !current.CanTransitTo(status) {
		return kdb.NewErrInvalidTransition(string(current), string(status))
	}

	if _, err := tx.Exec(
		ctx,
		`update "release" set "status" = $2, "updated_at" = now() where "release_id" = $1`,
		releaseId, status,
	); err != nil {
		return xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *releasePG) Delete(ctx context.Context, releaseId string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var current kdb.ReleaseStatus
	if err := tx.QueryRow(
		ctx,
		`select "status" from "release" where "release_id" = $1 for update of "release"`,
		releaseId,
	).Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "release",
				Identity: fmt.Sprintf("release_id='%s'", releaseId),
			}
		}
		return xe.Wrap(err)
	}

	if current != kdb.Draft {
		return kpgerr.InUse{
			Table:    "release",
			Identity: fmt.Sprintf("release_id='%s' (status=%s)", releaseId, current),
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		with
		"cleared_tracks" as (
			delete from "track" where "release_id" = $1
		),
		"cleared_owners" as (
			delete from "release_owner" where "release_id" = $1
		),
		"cleared_requests" as (
			delete from "platform_request" where "release_id" = $1
		)
		delete from "release" where "release_id" = $1
		`,
		releaseId,
	); err != nil {
		return xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
