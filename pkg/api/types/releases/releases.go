package releases

import (
	"fmt"
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

type Track struct {
	TrackNo         int    `json:"trackNo"`
	Title           string `json:"title"`
	Isrc            string `json:"isrc,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

func ComposeTrack(t kdb.Track) Track {
	return Track{
		TrackNo:         t.TrackNo,
		Title:           t.Title,
		Isrc:            t.Isrc,
		DurationSeconds: t.DurationSeconds,
	}
}

func (t Track) ToDBTrack() kdb.Track {
	return kdb.Track{
		TrackNo:         t.TrackNo,
		Title:           t.Title,
		Isrc:            t.Isrc,
		DurationSeconds: t.DurationSeconds,
	}
}

type Owner struct {
	ArtistId string `json:"artistId"`
	Credit   string `json:"credit"`
}

func ComposeOwner(o kdb.Owner) Owner {
	return Owner{ArtistId: o.ArtistId, Credit: string(o.Credit)}
}

func (o Owner) ToDBOwner() kdb.Owner {
	return kdb.Owner{ArtistId: o.ArtistId, Credit: kdb.Credit(o.Credit)}
}

// Spec is a release to be registered or updated.
//
// ReleaseDate is formatted as "2006-01-02".
type Spec struct {
	Title         string  `json:"title"`
	CatalogNumber string  `json:"catalogNumber"`
	Kind          string  `json:"kind"`
	ReleaseDate   string  `json:"releaseDate,omitempty"`
	Tracks        []Track `json:"tracks,omitempty"`
	Owners        []Owner `json:"owners"`
}

func (s Spec) ToDBSpec() (kdb.ReleaseSpec, error) {
	spec := kdb.ReleaseSpec{
		Title:         s.Title,
		CatalogNumber: s.CatalogNumber,
		Kind:          kdb.ReleaseKind(s.Kind),
		Tracks:        utils.Map(s.Tracks, Track.ToDBTrack),
		Owners:        utils.Map(s.Owners, Owner.ToDBOwner),
	}

	if s.ReleaseDate != "" {
		date, err := time.Parse("2006-01-02", s.ReleaseDate)
		if err != nil {
			return kdb.ReleaseSpec{}, fmt.Errorf("malformed release date: %s", s.ReleaseDate)
		}
		spec.ReleaseDate = &date
	}

	return spec, nil
}

type Detail struct {
	ReleaseId     string    `json:"releaseId"`
	Title         string    `json:"title"`
	CatalogNumber string    `json:"catalogNumber"`
	Kind          string    `json:"kind"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	Status        string    `json:"status"`
	Tracks        []Track   `json:"tracks"`
	Owners        []Owner   `json:"owners"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
}

func (d Detail) Equal(o Detail) bool {
	return d.ReleaseId == o.ReleaseId &&
		d.Title == o.Title &&
		d.CatalogNumber == o.CatalogNumber &&
		d.Kind == o.Kind &&
		d.ReleaseDate == o.ReleaseDate &&
		d.Status == o.Status &&
		cmp.SliceEq(d.Tracks, o.Tracks) &&
		cmp.SliceContentEq(d.Owners, o.Owners)
}

func ComposeDetail(r kdb.Release) Detail {
	releaseDate := ""
	if r.ReleaseDate != nil {
		releaseDate = r.ReleaseDate.Format("2006-01-02")
	}

	tracks := utils.Map(r.Tracks, ComposeTrack)
	if tracks == nil {
		tracks = []Track{}
	}
	owners := utils.Map(r.Owners, ComposeOwner)
	if owners == nil {
		owners = []Owner{}
	}

	return Detail{
		ReleaseId:     r.ReleaseId,
		Title:         r.Title,
		CatalogNumber: r.CatalogNumber,
		Kind:          string(r.Kind),
		ReleaseDate:   releaseDate,
		Status:        string(r.Status),
		Tracks:        tracks,
		Owners:        owners,
		Created:       r.Created,
		Updated:       r.Updated,
	}
}

// StatusChange moves a release along the status pipeline.
type StatusChange struct {
	Status string `json:"status"`
}
