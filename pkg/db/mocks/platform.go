package mocks

import (
	"context"
	"errors"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type PlatformInterface struct {
	Impl struct {
		Submit        func(context.Context, string, kdb.PlatformName) error
		SetStatus     func(context.Context, string, kdb.PlatformName, kdb.PlatformStatus, string) error
		ListByRelease func(context.Context, string) ([]kdb.PlatformRequest, error)
		Summary       func(context.Context) (kdb.PlatformSummary, error)
	}
	Calls struct {
		Submit CallLog[struct {
			ReleaseId string
			Platform  kdb.PlatformName
		}]
		SetStatus CallLog[struct {
			ReleaseId string
			Platform  kdb.PlatformName
			Status    kdb.PlatformStatus
			Note      string
		}]
		ListByRelease CallLog[struct{ ReleaseId string }]
		Summary       CallLog[struct{}]
	}
}

func NewPlatformInterface() *PlatformInterface {
	return &PlatformInterface{}
}

var _ kdb.PlatformInterface = &PlatformInterface{}

func (m *PlatformInterface) Submit(ctx context.Context, releaseId string, platform kdb.PlatformName) error {
	m.Calls.Submit = append(m.Calls.Submit, struct {
		ReleaseId string
		Platform  kdb.PlatformName
	}{ReleaseId: releaseId, Platform: platform})
	if m.Impl.Submit != nil {
		return m.Impl.Submit(ctx, releaseId, platform)
	}
	panic(errors.New("it should not be called"))
}

func (m *PlatformInterface) SetStatus(ctx context.Context, releaseId string, platform kdb.PlatformName, status kdb.PlatformStatus, note string) error {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		ReleaseId string
		Platform  kdb.PlatformName
		Status    kdb.PlatformStatus
		Note      string
	}{ReleaseId: releaseId, Platform: platform, Status: status, Note: note})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, releaseId, platform, status, note)
	}
	panic(errors.New("it should not be called"))
}

func (m *PlatformInterface) ListByRelease(ctx context.Context, releaseId string) ([]kdb.PlatformRequest, error) {
	m.Calls.ListByRelease = append(m.Calls.ListByRelease, struct{ ReleaseId string }{ReleaseId: releaseId})
	if m.Impl.ListByRelease != nil {
		return m.Impl.ListByRelease(ctx, releaseId)
	}
	panic(errors.New("it should not be called"))
}

func (m *PlatformInterface) Summary(ctx context.Context) (kdb.PlatformSummary, error) {
	m.Calls.Summary = append(m.Calls.Summary, struct{}{})
	if m.Impl.Summary != nil {
		return m.Impl.Summary(ctx)
	}
	panic(errors.New("it should not be called"))
}
