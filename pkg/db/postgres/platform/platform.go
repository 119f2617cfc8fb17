package platform

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
	kpgerr "github.com/tonearm/labeld/pkg/db/postgres/errors"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	xe "github.com/tonearm/labeld/pkg/errors"
)

type platformPG struct { // implements kdb.PlatformInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *platformPG {
	return &platformPG{pool: pool}
}

func (m *platformPG) Submit(ctx context.Context, releaseId string, platform kdb.PlatformName) error {
	if !platform.Known() {
		return fmt.Errorf("%w: unknown platform: %s", kdb.ErrInvalidSpec, platform)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var status kdb.ReleaseStatus
	if err := tx.QueryRow(
		ctx,
		`select "status" from "release" where "release_id" = $1 for share of "release"`,
		releaseId,
	).Scan(&status); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "release",
				Identity: fmt.Sprintf("release_id='%s'", releaseId),
			}
		}
		return xe.Wrap(err)
	}

	if status == kdb.Draft {
		return kpgerr.InUse{
			Table:    "release",
			Identity: fmt.Sprintf("release_id='%s' is still draft", releaseId),
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "platform_request" ("release_id", "platform", "status")
		values ($1, $2, $3)
		`,
		releaseId, platform, kdb.Pending,
	); err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "platform_request",
			fmt.Sprintf("release_id='%s', platform='%s'", releaseId, platform),
		))
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *platformPG) SetStatus(ctx context.Context, releaseId string, platform kdb.PlatformName, status kdb.PlatformStatus, note string) error {
	if !status.Known() {
		return fmt.Errorf("%w: unknown platform status: %s", kdb.ErrInvalidSpec, status)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var current kdb.PlatformStatus
	if err := tx.QueryRow(
		ctx,
		`
		select "status" from "platform_request"
		where "release_id" = $1 and "platform" = $2
		for update of "platform_request"
		`,
		releaseId, platform,
	).Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "platform_request",
				Identity: fmt.Sprintf("release_id='%s', platform='%s'", releaseId, platform),
			}
		}
		return xe.Wrap(err)
	}

	if !current.CanTransitTo(status) {
		return kdb.NewErrInvalidTransition(string(current), string(status))
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "platform_request"
		set "status" = $3, "note" = $4, "updated_at" = now()
		where "release_id" = $1 and "platform" = $2
		`,
		releaseId, platform, status, note,
	); err != nil {
		return xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *platformPG) ListByRelease(ctx context.Context, releaseId string) ([]kdb.PlatformRequest, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	found := 0
	if err := conn.QueryRow(
		ctx,
		`select count("release_id") from "release" where "release_id" = $1`,
		releaseId,
	).Scan(&found); err != nil {
		return nil, xe.Wrap(err)
	}
	if found <= 0 {
		return nil, kpgerr.Missing{
			Table:    "release",
			Identity: fmt.Sprintf("release_id='%s'", releaseId),
		}
	}

	rows, err := conn.Query(
		ctx,
		`
		select "release_id", "platform", "status", "note", "submitted_at", "updated_at"
		from "platform_request"
		where "release_id" = $1
		order by "platform"
		`,
		releaseId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	requests := []kdb.PlatformRequest{}
	for rows.Next() {
		r := kdb.PlatformRequest{}
		if err := rows.Scan(
			&r.ReleaseId, &r.Platform, &r.Status, &r.Note,
			&r.SubmittedAt, &r.Updated,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		requests = append(requests, r)
	}
	return requests, nil
}

func (m *platformPG) Summary(ctx context.Context) (kdb.PlatformSummary, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select "platform", "status", count(*) from "platform_request"
		group by "platform", "status"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	summary := kdb.PlatformSummary{}
	for rows.Next() {
		var platform kdb.PlatformName
		var status kdb.PlatformStatus
		var count int
		if err := rows.Scan(&platform, &status, &count); err != nil {
			return nil, xe.Wrap(err)
		}
		if _, ok := summary[platform]; !ok {
			summary[platform] = map[kdb.PlatformStatus]int{}
		}
		summary[platform][status] = count
	}
	return summary, nil
}
