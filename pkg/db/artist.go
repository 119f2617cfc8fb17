package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
)

// Artist is a performer owning releases in the catalog.
type Artist struct {
	ArtistId string
	Name     string
	Aliases  []string
	Country  string // ISO-3166 alpha-2, or empty when unknown
	Email    string

	Created time.Time
	Updated time.Time
}

func (a *Artist) Equal(other *Artist) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	return a.ArtistId == other.ArtistId &&
		a.Name == other.Name &&
		cmp.SliceContentEq(a.Aliases, other.Aliases) &&
		a.Country == other.Country &&
		a.Email == other.Email
}

// ArtistSpec is an artist to be registered or updated.
type ArtistSpec struct {
	Name    string
	Aliases []string
	Country string
	Email   string
}

func (s ArtistSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: artist name is required", ErrInvalidSpec)
	}
	if s.Country != "" && len(s.Country) != 2 {
		return fmt.Errorf(
			"%w: country should be ISO-3166 alpha-2: %s", ErrInvalidSpec, s.Country,
		)
	}
	for _, alias := range s.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%w: empty alias", ErrInvalidSpec)
		}
	}
	return nil
}

// ArtistSimilarity is an existing artist similar to a name being registered.
type ArtistSimilarity struct {
	Artist Artist

	// name or alias of the artist which matched
	MatchedName string

	// similarity ratio in [0, 1]. 1 means identical after normalization.
	Similarity float64
}

type ArtistInterface interface {
	// Register stores a new artist and returns its id.
	//
	// Unless force, it fails with ErrSimilarArtistExists
	// when the new name is too similar to a registered name or alias.
	Register(ctx context.Context, spec ArtistSpec, force bool) (string, error)

	// RegisterAll stores artists in a single transaction.
	//
	// Any failure rolls the whole batch back;
	// either every artist is registered or none is.
	RegisterAll(ctx context.Context, specs []ArtistSpec, force bool) ([]string, error)

	// Get artists by ids. Unknown ids are simply omitted from the result.
	Get(ctx context.Context, artistIds []string) (map[string]*Artist, error)

	// Find returns ids of artists whose name or alias contains the given
	// fragment (case-insensitive). Empty fragment matches all artists.
	Find(ctx context.Context, name string) ([]string, error)

	Update(ctx context.Context, artistId string, spec ArtistSpec) error

	// Delete removes an artist.
	//
	// It fails with ErrConflict while the artist still owns releases.
	Delete(ctx context.Context, artistId string) error

	// FindSimilar returns registered artists whose name or alias is similar
	// to the given name, most similar first.
	FindSimilar(ctx context.Context, name string) ([]ArtistSimilarity, error)
}
