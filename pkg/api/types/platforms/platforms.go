package platforms

import (
	"time"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type Detail struct {
	ReleaseId   string    `json:"releaseId"`
	Platform    string    `json:"platform"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	Updated     time.Time `json:"updated"`
}

func (d Detail) Equal(o Detail) bool {
	return d.ReleaseId == o.ReleaseId &&
		d.Platform == o.Platform &&
		d.Status == o.Status &&
		d.Note == o.Note
}

func ComposeDetail(r kdb.PlatformRequest) Detail {
	return Detail{
		ReleaseId:   r.ReleaseId,
		Platform:    string(r.Platform),
		Status:      string(r.Status),
		Note:        r.Note,
		SubmittedAt: r.SubmittedAt,
		Updated:     r.Updated,
	}
}

// StatusChange moves a platform request along the submission pipeline.
type StatusChange struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// Summary counts platform requests per platform per status.
type Summary map[string]map[string]int

func ComposeSummary(s kdb.PlatformSummary) Summary {
	summary := Summary{}
	for platform, counts := range s {
		summary[string(platform)] = map[string]int{}
		for status, count := range counts {
			summary[string(platform)][string(status)] = count
		}
	}
	return summary
}
