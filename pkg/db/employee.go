package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
)

// Employee is a staff record. Employees form a reporting tree
// via ManagerId; the tree is guarded against cycles.
type Employee struct {
	EmployeeId string
	Name       string
	Email      string
	Title      string
	ManagerId  *string
	Active     bool

	Created time.Time
	Updated time.Time
}

func (e *Employee) Equal(other *Employee) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}
	return e.EmployeeId == other.EmployeeId &&
		e.Name == other.Name &&
		e.Email == other.Email &&
		e.Title == other.Title &&
		cmp.PEqEq(e.ManagerId, other.ManagerId) &&
		e.Active == other.Active
}

type EmployeeSpec struct {
	Name      string
	Email     string
	Title     string
	ManagerId *string
}

func (s EmployeeSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: employee name is required", ErrInvalidSpec)
	}
	if !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: employee email is malformed: %s", ErrInvalidSpec, s.Email)
	}
	return nil
}

// EmployeeFindQuery filters employees. Zero-value fields do not filter.
type EmployeeFindQuery struct {
	Name   string // substring match against name, case-insensitive
	Active *bool
}

type EmployeeInterface interface {
	// Register stores a new employee and returns its id.
	//
	// Unknown manager fails with ErrMissing,
	// deactivated manager with ErrConflict.
	Register(ctx context.Context, spec EmployeeSpec) (string, error)

	// Get employees by ids. Unknown ids are simply omitted from the result.
	Get(ctx context.Context, employeeIds []string) (map[string]*Employee, error)

	Find(ctx context.Context, query EmployeeFindQuery) ([]string, error)

	// Update replaces employee attributes, including the manager.
	//
	// A manager change making the reporting chain cyclic
	// fails with ErrCyclicManager.
	Update(ctx context.Context, employeeId string, spec EmployeeSpec) error

	// Deactivate marks an employee inactive.
	//
	// Subordinates stay attached to the deactivated employee.
	Deactivate(ctx context.Context, employeeId string) error

	// Subordinates returns ids of all employees transitively
	// reporting to the given one, excluding itself.
	Subordinates(ctx context.Context, employeeId string) ([]string, error)
}
