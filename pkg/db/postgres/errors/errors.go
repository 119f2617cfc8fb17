package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return kdb.ErrMissing
}

// requested change collides with an existing record.
type Duplication struct {
	Table    string
	Identity string
}

var _ error = Duplication{}

func (d Duplication) Error() string {
	return fmt.Sprintf("%s already exists in %s", d.Identity, d.Table)
}
func (d Duplication) Unwrap() error {
	return kdb.ErrConflict
}

// record is referred from other records and cannot be changed.
type InUse struct {
	Table    string
	Identity string
}

var _ error = InUse{}

func (u InUse) Error() string {
	return fmt.Sprintf("%s in %s is in use", u.Identity, u.Table)
}
func (u InUse) Unwrap() error {
	return kdb.ErrConflict
}

// AsDomainError converts pgx constraint-violation errors into
// domain-level errors.
//
// Unique violations become Duplication,
// foreign-key violations become InUse.
// Other errors are returned as-is.
func AsDomainError(err error, table string, identity string) error {
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) {
		return err
	}
	switch pgerr.Code {
	case pgerrcode.UniqueViolation:
		return Duplication{Table: table, Identity: identity}
	case pgerrcode.ForeignKeyViolation:
		return InUse{Table: table, Identity: identity}
	}
	return err
}
