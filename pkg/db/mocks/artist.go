package mocks

import (
	"context"
	"errors"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type ArtistInterface struct {
	Impl struct {
		Register    func(context.Context, kdb.ArtistSpec, bool) (string, error)
		RegisterAll func(context.Context, []kdb.ArtistSpec, bool) ([]string, error)
		Get         func(context.Context, []string) (map[string]*kdb.Artist, error)
		Find        func(context.Context, string) ([]string, error)
		Update      func(context.Context, string, kdb.ArtistSpec) error
		Delete      func(context.Context, string) error
		FindSimilar func(context.Context, string) ([]kdb.ArtistSimilarity, error)
	}
	Calls struct {
		Register CallLog[struct {
			Spec  kdb.ArtistSpec
			Force bool
		}]
		RegisterAll CallLog[struct {
			Specs []kdb.ArtistSpec
			Force bool
		}]
		Get         CallLog[struct{ ArtistIds []string }]
		Find        CallLog[struct{ Name string }]
		Update      CallLog[struct {
			ArtistId string
			Spec     kdb.ArtistSpec
		}]
		Delete      CallLog[struct{ ArtistId string }]
		FindSimilar CallLog[struct{ Name string }]
	}
}

func NewArtistInterface() *ArtistInterface {
	return &ArtistInterface{}
}

var _ kdb.ArtistInterface = &ArtistInterface{}

func (m *ArtistInterface) Register(ctx context.Context, spec kdb.ArtistSpec, force bool) (string, error) {
	m.Calls.Register = append(m.Calls.Register, struct {
		Spec  kdb.ArtistSpec
		Force bool
	}{Spec: spec, Force: force})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec, force)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) RegisterAll(ctx context.Context, specs []kdb.ArtistSpec, force bool) ([]string, error) {
	m.Calls.RegisterAll = append(m.Calls.RegisterAll, struct {
		Specs []kdb.ArtistSpec
		Force bool
	}{Specs: specs, Force: force})
	if m.Impl.RegisterAll != nil {
		return m.Impl.RegisterAll(ctx, specs, force)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Get(ctx context.Context, artistIds []string) (map[string]*kdb.Artist, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ ArtistIds []string }{ArtistIds: artistIds})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, artistIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Find(ctx context.Context, name string) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ Name string }{Name: name})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, name)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Update(ctx context.Context, artistId string, spec kdb.ArtistSpec) error {
	m.Calls.Update = append(m.Calls.Update, struct {
		ArtistId string
		Spec     kdb.ArtistSpec
	}{ArtistId: artistId, Spec: spec})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, artistId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) Delete(ctx context.Context, artistId string) error {
	m.Calls.Delete = append(m.Calls.Delete, struct{ ArtistId string }{ArtistId: artistId})
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, artistId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ArtistInterface) FindSimilar(ctx context.Context, name string) ([]kdb.ArtistSimilarity, error) {
	m.Calls.FindSimilar = append(m.Calls.FindSimilar, struct{ Name string }{Name: name})
	if m.Impl.FindSimilar != nil {
		return m.Impl.FindSimilar(ctx, name)
	}
	panic(errors.New("it should not be called"))
}
