package mocks

import (
	"context"
	"errors"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type ReleaseInterface struct {
	Impl struct {
		Register    func(context.Context, kdb.ReleaseSpec) (string, error)
		RegisterAll func(context.Context, []kdb.ReleaseSpec) ([]string, error)
		Get       func(context.Context, []string) (map[string]*kdb.Release, error)
		Find      func(context.Context, kdb.ReleaseFindQuery) ([]string, error)
		Update    func(context.Context, string, kdb.ReleaseSpec) error
		SetStatus func(context.Context, string, kdb.ReleaseStatus) error
		Delete    func(context.Context, string) error
	}
	Calls struct {
		Register    CallLog[struct{ Spec kdb.ReleaseSpec }]
		RegisterAll CallLog[struct{ Specs []kdb.ReleaseSpec }]
		Get      CallLog[struct{ ReleaseIds []string }]
		Find     CallLog[struct{ Query kdb.ReleaseFindQuery }]
		Update   CallLog[struct {
			ReleaseId string
			Spec      kdb.ReleaseSpec
		}]
		SetStatus CallLog[struct {
			ReleaseId string
			Status    kdb.ReleaseStatus
		}]
		Delete CallLog[struct{ ReleaseId string }]
	}
}

func NewReleaseInterface() *ReleaseInterface {
	return &ReleaseInterface{}
}

var _ kdb.ReleaseInterface = &ReleaseInterface{}

func (m *ReleaseInterface) Register(ctx context.Context, spec kdb.ReleaseSpec) (string, error) {
	m.Calls.Register = append(m.Calls.Register, struct{ Spec kdb.ReleaseSpec }{Spec: spec})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) RegisterAll(ctx context.Context, specs []kdb.ReleaseSpec) ([]string, error) {
	m.Calls.RegisterAll = append(m.Calls.RegisterAll, struct{ Specs []kdb.ReleaseSpec }{Specs: specs})
	if m.Impl.RegisterAll != nil {
		return m.Impl.RegisterAll(ctx, specs)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) Get(ctx context.Context, releaseIds []string) (map[string]*kdb.Release, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ ReleaseIds []string }{ReleaseIds: releaseIds})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, releaseIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) Find(ctx context.Context, query kdb.ReleaseFindQuery) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ Query kdb.ReleaseFindQuery }{Query: query})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) Update(ctx context.Context, releaseId string, spec kdb.ReleaseSpec) error {
	m.Calls.Update = append(m.Calls.Update, struct {
		ReleaseId string
		Spec      kdb.ReleaseSpec
	}{ReleaseId: releaseId, Spec: spec})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, releaseId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) SetStatus(ctx context.Context, releaseId string, status kdb.ReleaseStatus) error {
	m.Calls.SetStatus = append(m.Calls.SetStatus, struct {
		ReleaseId string
		Status    kdb.ReleaseStatus
	}{ReleaseId: releaseId, Status: status})
	if m.Impl.SetStatus != nil {
		return m.Impl.SetStatus(ctx, releaseId, status)
	}
	panic(errors.New("it should not be called"))
}

func (m *ReleaseInterface) Delete(ctx context.Context, releaseId string) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ ReleaseId string }{ReleaseId: releaseId})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, releaseId)
	}
	panic(errors.New("it should not be called"))
}
