package db

import (
	"context"
	"time"
)

// PlatformName identifies an external distribution platform.
type PlatformName string

const (
	YouTube   PlatformName = "youtube"
	Facebook  PlatformName = "facebook"
	TikTok    PlatformName = "tiktok"
	Flow      PlatformName = "flow"
	Ringtunes PlatformName = "ringtunes"

	// international streaming aggregator
	Streaming PlatformName = "streaming"
)

// Platforms lists all known platforms.
func Platforms() []PlatformName {
	return []PlatformName{YouTube, Facebook, TikTok, Flow, Ringtunes, Streaming}
}

func (p PlatformName) Known() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

type PlatformStatus string

const (
	Pending  PlatformStatus = "pending"
	Uploaded PlatformStatus = "uploaded"
	Rejected PlatformStatus = "rejected"
)

func (s PlatformStatus) Known() bool {
	switch s {
	case Pending, Uploaded, Rejected:
		return true
	}
	return false
}

// CanTransitTo answeres the submission pipeline:
//
//	pending -> uploaded | rejected
//	rejected -> pending (resubmission)
//
// uploaded is terminal.
func (s PlatformStatus) CanTransitTo(next PlatformStatus) bool {
	switch s {
	case Pending:
		return next == Uploaded || next == Rejected
	case Rejected:
		return next == Pending
	}
	return false
}

// PlatformRequest is a record of submission status of a release
// to an external platform.
type PlatformRequest struct {
	ReleaseId string
	Platform  PlatformName
	Status    PlatformStatus
	Note      string

	SubmittedAt time.Time
	Updated     time.Time
}

func (p PlatformRequest) Equal(other PlatformRequest) bool {
	return p.ReleaseId == other.ReleaseId &&
		p.Platform == other.Platform &&
		p.Status == other.Status &&
		p.Note == other.Note
}

// PlatformSummary counts platform requests per platform per status.
type PlatformSummary map[PlatformName]map[PlatformStatus]int

type PlatformInterface interface {
	// Submit creates a pending request of a release for a platform.
	//
	// It fails with ErrConflict when a request already exists,
	// or when the release is still draft.
	// Unknown release fails with ErrMissing.
	Submit(ctx context.Context, releaseId string, platform PlatformName) error

	// SetStatus moves a request along the submission pipeline.
	//
	// Illegal moves fail with ErrInvalidTransition.
	SetStatus(ctx context.Context, releaseId string, platform PlatformName, status PlatformStatus, note string) error

	// ListByRelease returns requests of a release, in platform name order.
	ListByRelease(ctx context.Context, releaseId string) ([]PlatformRequest, error)

	// Summary counts requests per platform per status.
	//
	// Platforms with no request at all are omitted.
	Summary(ctx context.Context) (PlatformSummary, error)
}
