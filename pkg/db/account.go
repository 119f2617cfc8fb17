package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role is a coarse access level of an account.
type Role string

const (
	// read-only access
	Viewer Role = "viewer"

	// "Artists and Repertoire": manages artists, releases and
	// platform requests
	AAndR Role = "a_and_r"

	// full access, including employees and accounts
	Admin Role = "admin"
)

func (r Role) Known() bool {
	switch r {
	case Viewer, AAndR, Admin:
		return true
	}
	return false
}

// Satisfies answeres whether this role covers the required one.
//
// Roles are totally ordered: viewer < a_and_r < admin.
func (r Role) Satisfies(required Role) bool {
	rank := map[Role]int{Viewer: 1, AAndR: 2, Admin: 3}
	return rank[r] >= rank[required]
}

// Account is a login identity.
type Account struct {
	Login        string
	PasswordHash []byte
	Role         Role
	EmployeeId   *string

	Created time.Time
	Updated time.Time
}

type AccountSpec struct {
	Login        string
	PasswordHash []byte
	Role         Role
	EmployeeId   *string
}

func (s AccountSpec) Validate() error {
	if strings.TrimSpace(s.Login) == "" {
		return fmt.Errorf("%w: login is required", ErrInvalidSpec)
	}
	if len(s.PasswordHash) == 0 {
		return fmt.Errorf("%w: password hash is required", ErrInvalidSpec)
	}
	if !s.Role.Known() {
		return fmt.Errorf("%w: unknown role: %s", ErrInvalidSpec, s.Role)
	}
	return nil
}

type AccountInterface interface {
	// Register stores a new account.
	//
	// Login collision fails with ErrConflict.
	Register(ctx context.Context, spec AccountSpec) error

	// GetByLogin returns the account of a login name.
	//
	// Unknown login fails with ErrMissing.
	GetByLogin(ctx context.Context, login string) (*Account, error)

	UpdatePassword(ctx context.Context, login string, passwordHash []byte) error

	// Find returns all accounts, in login order, without password hashes.
	Find(ctx context.Context) ([]Account, error)
}
