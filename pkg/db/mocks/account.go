package mocks

import (
	"context"
	"errors"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type AccountInterface struct {
	Impl struct {
		Register       func(context.Context, kdb.AccountSpec) error
		GetByLogin     func(context.Context, string) (*kdb.Account, error)
		UpdatePassword func(context.Context, string, []byte) error
		Find           func(context.Context) ([]kdb.Account, error)
	}
	Calls struct {
		Register       CallLog[struct{ Spec kdb.AccountSpec }]
		GetByLogin     CallLog[struct{ Login string }]
		UpdatePassword CallLog[struct {
			Login        string
			PasswordHash []byte
		}]
		Find CallLog[struct{}]
	}
}

func NewAccountInterface() *AccountInterface {
	return &AccountInterface{}
}

var _ kdb.AccountInterface = &AccountInterface{}

func (m *AccountInterface) Register(ctx context.Context, spec kdb.AccountSpec) error {
	m.Calls.Register = append(m.Calls.Register, struct{ Spec kdb.AccountSpec }{Spec: spec})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *AccountInterface) GetByLogin(ctx context.Context, login string) (*kdb.Account, error) {
	m.Calls.GetByLogin = append(m.Calls.GetByLogin, struct{ Login string }{Login: login})
	if m.Impl.GetByLogin != nil {
		return m.Impl.GetByLogin(ctx, login)
	}
	panic(errors.New("it should not be called"))
}

func (m *AccountInterface) UpdatePassword(ctx context.Context, login string, passwordHash []byte) error {
	m.Calls.UpdatePassword = append(m.Calls.UpdatePassword, struct {
		Login        string
		PasswordHash []byte
	}{Login: login, PasswordHash: passwordHash})
	if m.Impl.UpdatePassword != nil {
		return m.Impl.UpdatePassword(ctx, login, passwordHash)
	}
	panic(errors.New("it should not be called"))
}

func (m *AccountInterface) Find(ctx context.Context) ([]kdb.Account, error) {
	m.Calls.Find = append(m.Calls.Find, struct{}{})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx)
	}
	panic(errors.New("it should not be called"))
}
