package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
	kpgerr "github.com/tonearm/labeld/pkg/db/postgres/errors"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	xe "github.com/tonearm/labeld/pkg/errors"
)

type accountPG struct { // implements kdb.AccountInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *accountPG {
	return &accountPG{pool: pool}
}

func (m *accountPG) Register(ctx context.Context, spec kdb.AccountSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if spec.EmployeeId != nil {
		found := 0
		if err := tx.QueryRow(
			ctx,
			`select count("employee_id") from "employee" where "employee_id" = $1`,
			*spec.EmployeeId,
		).Scan(&found); err != nil {
			return xe.Wrap(err)
		}
		if found <= 0 {
			return kpgerr.Missing{
				Table:    "employee",
				Identity: fmt.Sprintf("employee_id='%s'", *spec.EmployeeId),
			}
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "account" ("login", "password_hash", "role", "employee_id")
		values ($1, $2, $3, $4)
		`,
		spec.Login, spec.PasswordHash, spec.Role, spec.EmployeeId,
	); err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "account", fmt.Sprintf("login='%s'", spec.Login),
		))
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *accountPG) GetByLogin(ctx context.Context, login string) (*kdb.Account, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	a := kdb.Account{}
	if err := conn.QueryRow(
		ctx,
		`
		select "login", "password_hash", "role", "employee_id", "created_at", "updated_at"
		from "account" where "login" = $1
		`,
		login,
	).Scan(
		&a.Login, &a.PasswordHash, &a.Role, &a.EmployeeId, &a.Created, &a.Updated,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, kpgerr.Missing{
				Table:    "account",
				Identity: fmt.Sprintf("login='%s'", login),
			}
		}
		return nil, xe.Wrap(err)
	}
	return &a, nil
}

func (m *accountPG) UpdatePassword(ctx context.Context, login string, passwordHash []byte) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`update "account" set "password_hash" = $2, "updated_at" = now() where "login" = $1`,
		login, passwordHash,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() <= 0 {
		return kpgerr.Missing{
			Table:    "account",
			Identity: fmt.Sprintf("login='%s'", login),
		}
	}
	return nil
}

func (m *accountPG) Find(ctx context.Context) ([]kdb.Account, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select "login", "role", "employee_id", "created_at", "updated_at"
		from "account" order by "login"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	accounts := []kdb.Account{}
	for rows.Next() {
		a := kdb.Account{}
		if err := rows.Scan(
			&a.Login, &a.Role, &a.EmployeeId, &a.Created, &a.Updated,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}
