package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
)

type ReleaseKind string

const (
	Single ReleaseKind = "single"
	Album  ReleaseKind = "album"
)

func (k ReleaseKind) Known() bool {
	switch k {
	case Single, Album:
		return true
	}
	return false
}

type ReleaseStatus string

const (
	Draft     ReleaseStatus = "draft"
	Scheduled ReleaseStatus = "scheduled"
	Released  ReleaseStatus = "released"
	Withdrawn ReleaseStatus = "withdrawn"
)

func (s ReleaseStatus) Known() bool {
	switch s {
	case Draft, Scheduled, Released, Withdrawn:
		return true
	}
	return false
}

// CanTransitTo answeres the status pipeline:
//
//	draft -> scheduled -> released
//
// and withdrawn is reachable from scheduled and released.
func (s ReleaseStatus) CanTransitTo(next ReleaseStatus) bool {
	switch s {
	case Draft:
		return next == Scheduled
	case Scheduled:
		return next == Released || next == Withdrawn
	case Released:
		return next == Withdrawn
	}
	return false
}

type Credit string

const (
	PrimaryArtist  Credit = "primary"
	FeaturedArtist Credit = "featured"
)

func (c Credit) Known() bool {
	switch c {
	case PrimaryArtist, FeaturedArtist:
		return true
	}
	return false
}

type Track struct {
	TrackNo         int
	Title           string
	Isrc            string // empty until assigned
	DurationSeconds int
}

// Owner is a link between a release and an owning artist.
type Owner struct {
	ArtistId string
	Credit   Credit
}

type Release struct {
	ReleaseId     string
	Title         string
	CatalogNumber string
	Kind          ReleaseKind
	ReleaseDate   *time.Time
	Status        ReleaseStatus
	Tracks        []Track
	Owners        []Owner

	Created time.Time
	Updated time.Time
}

func (r *Release) Equal(other *Release) bool {
	if r == nil || other == nil {
		return r == nil && other == nil
	}
	return r.ReleaseId == other.ReleaseId &&
		r.Title == other.Title &&
		r.CatalogNumber == other.CatalogNumber &&
		r.Kind == other.Kind &&
		cmp.PEqualWith(
			r.ReleaseDate, other.ReleaseDate,
			func(a, b time.Time) bool { return a.Equal(b) },
		) &&
		r.Status == other.Status &&
		cmp.SliceEq(r.Tracks, other.Tracks) &&
		cmp.SliceContentEq(r.Owners, other.Owners)
}

// ReleaseSpec is a release to be registered or updated.
//
// Status is not in spec: new releases always start as draft,
// and status changes go through ReleaseInterface.SetStatus.
type ReleaseSpec struct {
	Title         string
	CatalogNumber string
	Kind          ReleaseKind
	ReleaseDate   *time.Time
	Tracks        []Track
	Owners        []Owner
}

func (s ReleaseSpec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: release title is required", ErrInvalidSpec)
	}
	if strings.TrimSpace(s.CatalogNumber) == "" {
		return fmt.Errorf("%w: catalog number is required", ErrInvalidSpec)
	}
	if !s.Kind.Known() {
		return fmt.Errorf("%w: unknown release kind: %s", ErrInvalidSpec, s.Kind)
	}

	primaries := 0
	seenOwner := map[string]struct{}{}
	for _, o := range s.Owners {
		if !o.Credit.Known() {
			return fmt.Errorf("%w: unknown credit: %s", ErrInvalidSpec, o.Credit)
		}
		if _, ok := seenOwner[o.ArtistId]; ok {
			return fmt.Errorf("%w: artist %s is credited twice", ErrInvalidSpec, o.ArtistId)
		}
		seenOwner[o.ArtistId] = struct{}{}
		if o.Credit == PrimaryArtist {
			primaries += 1
		}
	}
	if primaries == 0 {
		return fmt.Errorf("%w: at least one primary artist is required", ErrInvalidSpec)
	}

	seenTrack := map[int]struct{}{}
	for _, tr := range s.Tracks {
		if tr.TrackNo <= 0 {
			return fmt.Errorf("%w: track number should be positive: %d", ErrInvalidSpec, tr.TrackNo)
		}
		if _, ok := seenTrack[tr.TrackNo]; ok {
			return fmt.Errorf("%w: duplicated track number: %d", ErrInvalidSpec, tr.TrackNo)
		}
		seenTrack[tr.TrackNo] = struct{}{}
		if strings.TrimSpace(tr.Title) == "" {
			return fmt.Errorf("%w: track %d has no title", ErrInvalidSpec, tr.TrackNo)
		}
		if tr.DurationSeconds < 0 {
			return fmt.Errorf("%w: track %d has negative duration", ErrInvalidSpec, tr.TrackNo)
		}
	}

	return nil
}

// ReleaseFindQuery filters releases. Zero-value fields do not filter.
type ReleaseFindQuery struct {
	ArtistId       string
	Status         *ReleaseStatus
	Platform       PlatformName
	PlatformStatus *PlatformStatus
}

type ReleaseInterface interface {
	// Register stores a new release (with tracks and owners) as draft
	// and returns its id.
	Register(ctx context.Context, spec ReleaseSpec) (string, error)

	// RegisterAll stores releases in a single transaction.
	//
	// Any failure rolls the whole batch back;
	// either every release is registered or none is.
	RegisterAll(ctx context.Context, specs []ReleaseSpec) ([]string, error)

	// Get releases by ids. Unknown ids are simply omitted from the result.
	Get(ctx context.Context, releaseIds []string) (map[string]*Release, error)

	// Find returns ids of releases matching the query, in catalog number order.
	Find(ctx context.Context, query ReleaseFindQuery) ([]string, error)

	// Update replaces metadata, tracks and owners of a release.
	Update(ctx context.Context, releaseId string, spec ReleaseSpec) error

	// SetStatus moves a release along the status pipeline.
	//
	// Illegal moves fail with ErrInvalidTransition.
	SetStatus(ctx context.Context, releaseId string, status ReleaseStatus) error

	// Delete removes a draft release.
	//
	// Non-draft releases fail with ErrConflict.
	Delete(ctx context.Context, releaseId string) error
}
