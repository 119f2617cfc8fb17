package artists

import (
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// Spec is an artist to be registered or updated.
type Spec struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Country string   `json:"country,omitempty"`
	Email   string   `json:"email,omitempty"`

	// register even when similar artists exist
	Force bool `json:"force,omitempty"`
}

func (s Spec) ToDBSpec() kdb.ArtistSpec {
	return kdb.ArtistSpec{
		Name:    s.Name,
		Aliases: s.Aliases,
		Country: s.Country,
		Email:   s.Email,
	}
}

type Detail struct {
	ArtistId string    `json:"artistId"`
	Name     string    `json:"name"`
	Aliases  []string  `json:"aliases"`
	Country  string    `json:"country,omitempty"`
	Email    string    `json:"email,omitempty"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

func (d Detail) Equal(o Detail) bool {
	return d.ArtistId == o.ArtistId &&
		d.Name == o.Name &&
		cmp.SliceContentEq(d.Aliases, o.Aliases) &&
		d.Country == o.Country &&
		d.Email == o.Email
}

func ComposeDetail(a kdb.Artist) Detail {
	aliases := a.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	return Detail{
		ArtistId: a.ArtistId,
		Name:     a.Name,
		Aliases:  aliases,
		Country:  a.Country,
		Email:    a.Email,
		Created:  a.Created,
		Updated:  a.Updated,
	}
}

// Similarity is a registered artist resembling a requested name.
type Similarity struct {
	Artist      Detail  `json:"artist"`
	MatchedName string  `json:"matchedName"`
	Similarity  float64 `json:"similarity"`
}

func (s Similarity) Equal(o Similarity) bool {
	return s.Artist.Equal(o.Artist) &&
		s.MatchedName == o.MatchedName &&
		s.Similarity == o.Similarity
}

func ComposeSimilarity(s kdb.ArtistSimilarity) Similarity {
	return Similarity{
		Artist:      ComposeDetail(s.Artist),
		MatchedName: s.MatchedName,
		Similarity:  s.Similarity,
	}
}
