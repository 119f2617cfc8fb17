// Package fakedb is a scripted stand-in for the postgres pool.
//
// Logic living next to SQL (graph traversals, register-time gates)
// can be driven through it without a database server: responses are
// scripted per statement, and sent statements and transaction
// outcomes are recorded for assertions.
package fakedb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgconn"
	pgproto3 "github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgx/v4"

	kpool "github.com/tonearm/labeld/pkg/db/postgres/pool"
)

// Call is one statement sent to the fake.
type Call struct {
	SQL  string
	Args []interface{}
}

// Pool implements kpool.Pool. Responses come from the On* hooks;
// a nil hook answers the zero result (no rows, one affected row).
type Pool struct {
	OnExec     func(sql string, args []interface{}) (pgconn.CommandTag, error)
	OnQuery    func(sql string, args []interface{}) (pgx.Rows, error)
	OnQueryRow func(sql string, args []interface{}) pgx.Row

	Execs     []Call
	Queries   []Call
	QueryRows []Call
	Commits   int
	Rollbacks int
}

var _ kpool.Pool = &Pool{}

func (p *Pool) Begin(ctx context.Context) (kpool.Tx, error) {
	return &tx{pool: p}, nil
}

func (p *Pool) BeginTx(ctx context.Context, _ pgx.TxOptions) (kpool.Tx, error) {
	return &tx{pool: p}, nil
}

func (p *Pool) Acquire(ctx context.Context) (kpool.Conn, error) {
	return &conn{pool: p}, nil
}

func (p *Pool) Ping(ctx context.Context) error { return nil }

func (p *Pool) exec(sql string, args []interface{}) (pgconn.CommandTag, error) {
	p.Execs = append(p.Execs, Call{SQL: sql, Args: args})
	if p.OnExec != nil {
		return p.OnExec(sql, args)
	}
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (p *Pool) query(sql string, args []interface{}) (pgx.Rows, error) {
	p.Queries = append(p.Queries, Call{SQL: sql, Args: args})
	if p.OnQuery != nil {
		return p.OnQuery(sql, args)
	}
	return Rows(), nil
}

func (p *Pool) queryRow(sql string, args []interface{}) pgx.Row {
	p.QueryRows = append(p.QueryRows, Call{SQL: sql, Args: args})
	if p.OnQueryRow != nil {
		return p.OnQueryRow(sql, args)
	}
	return NoRow()
}

type tx struct{ pool *Pool }

var _ kpool.Tx = &tx{}

func (t *tx) Begin(ctx context.Context) (kpool.Tx, error) { return t, nil }
func (t *tx) Commit(ctx context.Context) error {
	t.pool.Commits++
	return nil
}
func (t *tx) Rollback(ctx context.Context) error {
	t.pool.Rollbacks++
	return nil
}
func (t *tx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return t.pool.exec(sql, args)
}
func (t *tx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return t.pool.query(sql, args)
}
func (t *tx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return t.pool.queryRow(sql, args)
}

type conn struct{ pool *Pool }

var _ kpool.Conn = &conn{}

func (c *conn) Begin(ctx context.Context) (kpool.Tx, error) { return &tx{pool: c.pool}, nil }
func (c *conn) BeginTx(ctx context.Context, _ pgx.TxOptions) (kpool.Tx, error) {
	return &tx{pool: c.pool}, nil
}
func (c *conn) Release() {}

func (c *conn) Ping(ctx context.Context) error { return nil }
func (c *conn) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return c.pool.exec(sql, args)
}
func (c *conn) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return c.pool.query(sql, args)
}
func (c *conn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return c.pool.queryRow(sql, args)
}

// Rows builds a result set from value tuples.
func Rows(records ...[]interface{}) pgx.Rows {
	return &rows{records: records, cursor: -1}
}

type rows struct {
	records [][]interface{}
	cursor  int
}

var _ pgx.Rows = &rows{}

func (r *rows) Close() {}

func (r *rows) Err() error { return nil }

func (r *rows) CommandTag() pgconn.CommandTag { return nil }

func (r *rows) FieldDescriptions() []pgproto3.FieldDescription { return nil }

func (r *rows) RawValues() [][]byte { return nil }

func (r *rows) Next() bool {
	r.cursor++
	return r.cursor < len(r.records)
}

func (r *rows) Values() ([]interface{}, error) {
	return r.records[r.cursor], nil
}

func (r *rows) Scan(dest ...interface{}) error {
	return scan(dest, r.records[r.cursor])
}

// Row builds a single-record result.
func Row(values ...interface{}) pgx.Row {
	return row{values: values}
}

// NoRow is a result whose Scan fails with pgx.ErrNoRows.
func NoRow() pgx.Row {
	return row{err: pgx.ErrNoRows}
}

// ErrRow is a result whose Scan fails with the given error.
func ErrRow(err error) pgx.Row {
	return row{err: err}
}

type row struct {
	values []interface{}
	err    error
}

func (r row) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return scan(dest, r.values)
}

func scan(dest []interface{}, values []interface{}) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan targets %d != values %d", len(dest), len(values))
	}
	for i, d := range dest {
		if err := assign(d, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest interface{}, value interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("scan target should be a non-nil pointer, got %T", dest)
	}
	ev := dv.Elem()
	if value == nil {
		ev.Set(reflect.Zero(ev.Type()))
		return nil
	}

	sv := reflect.ValueOf(value)
	switch {
	case sv.Type().AssignableTo(ev.Type()):
		ev.Set(sv)
	case sv.Type().ConvertibleTo(ev.Type()):
		ev.Set(sv.Convert(ev.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	return nil
}
