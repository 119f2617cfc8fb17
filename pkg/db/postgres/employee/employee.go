package employee

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	kdb "github.com/tonearm/labeld/pkg/db"
	kpgerr "github.com/tonearm/labeld/pkg/db/postgres/errors"
	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
	xe "github.com/tonearm/labeld/pkg/errors"
)

type employeePG struct { // implements kdb.EmployeeInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *employeePG {
	return &employeePG{pool: pool}
}

// verifyManager makes sure the manager is registered and active.
func verifyManager(ctx context.Context, conn kpool.Queryer, managerId string) error {
	var active bool
	if err := conn.QueryRow(
		ctx,
		`select "active" from "employee" where "employee_id" = $1`,
		managerId,
	).Scan(&active); err != nil {
		if err == pgx.ErrNoRows {
			return kpgerr.Missing{
				Table:    "employee",
				Identity: fmt.Sprintf("manager employee_id='%s'", managerId),
			}
		}
		return xe.Wrap(err)
	}
	if !active {
		return kpgerr.InUse{
			Table:    "employee",
			Identity: fmt.Sprintf("manager employee_id='%s' is deactivated", managerId),
		}
	}
	return nil
}

// managerChainIsCyclic walks the reporting chain upward from the
// candidate manager, one step per query, and reports whether it
// reaches the employee being (re)assigned.
//
// The chain is finite as long as it is acyclic, and a pre-existing
// cycle not involving employeeId is caught by the visited set.
func managerChainIsCyclic(ctx context.Context, conn kpool.Queryer, employeeId string, managerId string) (bool, error) {
	visited := map[string]struct{}{}
	current := managerId
	for {
		if current == employeeId {
			return true, nil
		}
		if _, ok := visited[current]; ok {
			return false, nil
		}
		visited[current] = struct{}{}

		var next *string
		if err := conn.QueryRow(
			ctx,
			`select "manager_id" from "employee" where "employee_id" = $1`,
			current,
		).Scan(&next); err != nil {
			if err == pgx.ErrNoRows {
				return false, nil
			}
			return false, xe.Wrap(err)
		}
		if next == nil {
			return false, nil
		}
		current = *next
	}
}

func (m *employeePG) Register(ctx context.Context, spec kdb.EmployeeSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	tx, err := m.pool.BeginTx(
		ctx, pgx.TxOptions{IsoLevel: pgx.Serializable},
	)
	if err != nil {
		return "", xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if spec.ManagerId != nil {
		if err := verifyManager(ctx, tx, *spec.ManagerId); err != nil {
			return "", err
		}
	}

	employeeId := uuid.NewString()
	if _, err := tx.Exec(
		ctx,
		`
		insert into "employee" ("employee_id", "name", "email", "title", "manager_id", "active")
		values ($1, $2, $3, $4, $5, true)
		`,
		employeeId, spec.Name, spec.Email, spec.Title, spec.ManagerId,
	); err != nil {
		return "", xe.Wrap(kpgerr.AsDomainError(
			err, "employee", fmt.Sprintf("email='%s'", spec.Email),
		))
	}

	if err := tx.Commit(ctx); err != nil {
		return "", xe.Wrap(err)
	}
	return employeeId, nil
}

func (m *employeePG) Get(ctx context.Context, employeeIds []string) (map[string]*kdb.Employee, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"employee_id", "name", "email", "title", "manager_id", "active",
			"created_at", "updated_at"
		from "employee" where "employee_id" = any($1)
		`,
		employeeIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	employees := map[string]*kdb.Employee{}
	for rows.Next() {
		e := kdb.Employee{}
		if err := rows.Scan(
			&e.EmployeeId, &e.Name, &e.Email, &e.Title, &e.ManagerId, &e.Active,
			&e.Created, &e.Updated,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		employees[e.EmployeeId] = &e
	}
	return employees, nil
}

func (m *employeePG) Find(ctx context.Context, query kdb.EmployeeFindQuery) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select "employee_id" from "employee"
		where ($1 = '' or position(lower($1) in lower("name")) > 0)
		  and ($2::boolean is null or "active" = $2)
		order by "name"
		`,
		query.Name, query.Active,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	employeeIds := []string{}
	for rows.Next() {
		var employeeId string
		if err := rows.Scan(&employeeId); err != nil {
			return nil, xe.Wrap(err)
		}
		employeeIds = append(employeeIds, employeeId)
	}
	return employeeIds, nil
}

func (m *employeePG) Update(ctx context.Context, employeeId string, spec kdb.EmployeeSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	tx, err := m.pool.BeginTx(
		ctx, pgx.TxOptions{IsoLevel: pgx.Serializable},
	)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// Keep chain walking deterministic against concurrent manager moves.
	if _, err := tx.Exec(ctx, `lock table "employee" in EXCLUSIVE mode;`); err != nil {
		return xe.Wrap(err)
	}

	found := 0
	if err := tx.QueryRow(
		ctx,
		`select count("employee_id") from "employee" where "employee_id" = $1`,
		employeeId,
	).Scan(&found); err != nil {
		return xe.Wrap(err)
	}
	if found <= 0 {
		return kpgerr.Missing{
			Table:    "employee",
			Identity: fmt.Sprintf("employee_id='%s'", employeeId),
		}
	}

	if spec.ManagerId != nil {
		if *spec.ManagerId == employeeId {
			return kdb.NewErrCyclicManager(employeeId, *spec.ManagerId)
		}
		if err := verifyManager(ctx, tx, *spec.ManagerId); err != nil {
			return err
		}
		cyclic, err := managerChainIsCyclic(ctx, tx, employeeId, *spec.ManagerId)
		if err != nil {
			return err
		}
		if cyclic {
			return kdb.NewErrCyclicManager(employeeId, *spec.ManagerId)
		}
	}

	if _, err := tx.Exec(
		ctx,
		`
		update "employee"
		set "name" = $2, "email" = $3, "title" = $4, "manager_id" = $5,
		    "updated_at" = now()
		where "employee_id" = $1
		`,
		employeeId, spec.Name, spec.Email, spec.Title, spec.ManagerId,
	); err != nil {
		return xe.Wrap(kpgerr.AsDomainError(
			err, "employee", fmt.Sprintf("email='%s'", spec.Email),
		))
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (m *employeePG) Deactivate(ctx context.Context, employeeId string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`update "employee" set "active" = false, "updated_at" = now() where "employee_id" = $1`,
		employeeId,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() <= 0 {
		return kpgerr.Missing{
			Table:    "employee",
			Identity: fmt.Sprintf("employee_id='%s'", employeeId),
		}
	}
	return nil
}

func (m *employeePG) Subordinates(ctx context.Context, employeeId string) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer conn.Release()

	found := 0
	if err := conn.QueryRow(
		ctx,
		`select count("employee_id") from "employee" where "employee_id" = $1`,
		employeeId,
	).Scan(&found); err != nil {
		return nil, xe.Wrap(err)
	}
	if found <= 0 {
		return nil, kpgerr.Missing{
			Table:    "employee",
			Identity: fmt.Sprintf("employee_id='%s'", employeeId),
		}
	}

	// Walk the tree downward one generation per query.
	known := map[string]struct{}{}
	frontier := []string{employeeId}
	for 0 < len(frontier) {
		rows, err := conn.Query(
			ctx,
			`select "employee_id" from "employee" where "manager_id" = any($1)`,
			frontier,
		)
		if err != nil {
			return nil, xe.Wrap(err)
		}

		next := []string{}
		for rows.Next() {
			var subordinateId string
			if err := rows.Scan(&subordinateId); err != nil {
				rows.Close()
				return nil, xe.Wrap(err)
			}
			if _, ok := known[subordinateId]; ok {
				continue
			}
			if subordinateId == employeeId {
				continue
			}
			known[subordinateId] = struct{}{}
			next = append(next, subordinateId)
		}
		rows.Close()
		frontier = next
	}

	subordinateIds := make([]string, 0, len(known))
	for id := range known {
		subordinateIds = append(subordinateIds, id)
	}
	sort.Strings(subordinateIds)
	return subordinateIds, nil
}
