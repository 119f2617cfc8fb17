package db

import (
	"errors"
	"fmt"
	"strings"
)

// requested record is not found.
var ErrMissing = errors.New("missing")

// requested change conflicts with the current state of records.
var ErrConflict = errors.New("conflict")

// request is malformed against the domain model.
var ErrInvalidSpec = errors.New("invalid specification")

// ErrSimilarArtistExists is returned when registering an artist
// whose name is too similar to artists already registered.
type ErrSimilarArtistExists struct {
	Candidates []ArtistSimilarity
}

func (e ErrSimilarArtistExists) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = fmt.Sprintf("%s (%.2f)", c.Artist.Name, c.Similarity)
	}
	return fmt.Sprintf("similar artists exist: %s", strings.Join(names, ", "))
}

func (e ErrSimilarArtistExists) Unwrap() error {
	return ErrConflict
}

func NewErrSimilarArtistExists(candidates []ArtistSimilarity) error {
	return ErrSimilarArtistExists{Candidates: candidates}
}

// ErrCyclicManager is returned when a manager change
// would make the reporting chain cyclic.
type ErrCyclicManager struct {
	EmployeeId string
	ManagerId  string
}

func (e ErrCyclicManager) Error() string {
	return fmt.Sprintf(
		"employee %s cannot report to %s: the manager is in the employee's own subtree",
		e.EmployeeId, e.ManagerId,
	)
}

func (e ErrCyclicManager) Unwrap() error {
	return ErrConflict
}

func NewErrCyclicManager(employeeId string, managerId string) error {
	return ErrCyclicManager{EmployeeId: employeeId, ManagerId: managerId}
}

// ErrInvalidTransition is returned when a status change
// does not follow the allowed pipeline.
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("status cannot go from %s to %s", e.From, e.To)
}

func (e ErrInvalidTransition) Unwrap() error {
	return ErrConflict
}

func NewErrInvalidTransition(from string, to string) error {
	return ErrInvalidTransition{From: from, To: to}
}
