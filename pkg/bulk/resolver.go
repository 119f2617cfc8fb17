package bulk

import (
	"context"
	"fmt"

	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/dedup"
)

// ResolverFor resolves artist names against the catalog.
//
// A name resolves when its normalized form equals the normalized
// name or alias of exactly one artist. The whole catalog is scanned:
// names which differ only in case or punctuation still resolve,
// which a substring lookup would miss.
func ResolverFor(artists kdb.ArtistInterface) ArtistResolver {
	return func(ctx context.Context, name string) (string, error) {
		candidateIds, err := artists.Find(ctx, "")
		if err != nil {
			return "", err
		}
		candidates, err := artists.Get(ctx, candidateIds)
		if err != nil {
			return "", err
		}

		needle := dedup.Normalize(name)
		matched := []string{}
		for _, a := range candidates {
			if dedup.Normalize(a.Name) == needle {
				matched = append(matched, a.ArtistId)
				continue
			}
			for _, alias := range a.Aliases {
				if dedup.Normalize(alias) == needle {
					matched = append(matched, a.ArtistId)
					break
				}
			}
		}

		switch len(matched) {
		case 0:
			return "", fmt.Errorf("%w: no artist named '%s'", kdb.ErrMissing, name)
		case 1:
			return matched[0], nil
		default:
			return "", fmt.Errorf("%w: name '%s' is ambiguous", kdb.ErrConflict, name)
		}
	}
}
