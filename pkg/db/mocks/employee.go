package mocks

import (
	"context"
	"errors"

	kdb "github.com/tonearm/labeld/pkg/db"
)

type EmployeeInterface struct {
	Impl struct {
		Register     func(context.Context, kdb.EmployeeSpec) (string, error)
		Get          func(context.Context, []string) (map[string]*kdb.Employee, error)
		Find         func(context.Context, kdb.EmployeeFindQuery) ([]string, error)
		Update       func(context.Context, string, kdb.EmployeeSpec) error
		Deactivate   func(context.Context, string) error
		Subordinates func(context.Context, string) ([]string, error)
	}
	Calls struct {
		Register CallLog[struct{ Spec kdb.EmployeeSpec }]
		Get      CallLog[struct{ EmployeeIds []string }]
		Find     CallLog[struct{ Query kdb.EmployeeFindQuery }]
		Update   CallLog[struct {
			EmployeeId string
			Spec       kdb.EmployeeSpec
		}]
		Deactivate   CallLog[struct{ EmployeeId string }]
		Subordinates CallLog[struct{ EmployeeId string }]
	}
}

func NewEmployeeInterface() *EmployeeInterface {
	return &EmployeeInterface{}
}

var _ kdb.EmployeeInterface = &EmployeeInterface{}

func (m *EmployeeInterface) Register(ctx context.Context, spec kdb.EmployeeSpec) (string, error) {
	m.Calls.Register = append(m.Calls.Register, struct{ Spec kdb.EmployeeSpec }{Spec: spec})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *EmployeeInterface) Get(ctx context.Context, employeeIds []string) (map[string]*kdb.Employee, error) {
	m.Calls.Get = append(m.Calls.Get, struct{ EmployeeIds []string }{EmployeeIds: employeeIds})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, employeeIds)
	}
	panic(errors.New("it should not be called"))
}

func (m *EmployeeInterface) Find(ctx context.Context, query kdb.EmployeeFindQuery) ([]string, error) {
	m.Calls.Find = append(m.Calls.Find, struct{ Query kdb.EmployeeFindQuery }{Query: query})
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("it should not be called"))
}

func (m *EmployeeInterface) Update(ctx context.Context, employeeId string, spec kdb.EmployeeSpec) error {
	m.Calls.Update = append(m.Calls.Update, struct {
		EmployeeId string
		Spec       kdb.EmployeeSpec
	}{EmployeeId: employeeId, Spec: spec})
	if m.Impl.Update != nil {
		return m.Impl.Update(ctx, employeeId, spec)
	}
	panic(errors.New("it should not be called"))
}

func (m *EmployeeInterface) Deactivate(ctx context.Context, employeeId string) error {
	m.Calls.Deactivate = append(m.Calls.Deactivate, struct{ EmployeeId string }{EmployeeId: employeeId})
	if m.Impl.Deactivate != nil {
		return m.Impl.Deactivate(ctx, employeeId)
	}
	panic(errors.New("it should not be called"))
}

func (m *EmployeeInterface) Subordinates(ctx context.Context, employeeId string) ([]string, error) {
	m.Calls.Subordinates = append(m.Calls.Subordinates, struct{ EmployeeId string }{EmployeeId: employeeId})
	if m.Impl.Subordinates != nil {
		return m.Impl.Subordinates(ctx, employeeId)
	}
	panic(errors.New("it should not be called"))
}
