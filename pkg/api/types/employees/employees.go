package employees

import (
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// Spec is an employee to be registered or updated.
type Spec struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Title     string  `json:"title,omitempty"`
	ManagerId *string `json:"managerId,omitempty"`
}

func (s Spec) ToDBSpec() kdb.EmployeeSpec {
	return kdb.EmployeeSpec{
		Name:      s.Name,
		Email:     s.Email,
		Title:     s.Title,
		ManagerId: s.ManagerId,
	}
}

type Detail struct {
	EmployeeId string    `json:"employeeId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Title      string    `json:"title,omitempty"`
	ManagerId  *string   `json:"managerId,omitempty"`
	Active     bool      `json:"active"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

func (d Detail) Equal(o Detail) bool {
	return d.EmployeeId == o.EmployeeId &&
		d.Name == o.Name &&
		d.Email == o.Email &&
		d.Title == o.Title &&
		cmp.PEqEq(d.ManagerId, o.ManagerId) &&
		d.Active == o.Active
}

func ComposeDetail(e kdb.Employee) Detail {
	return Detail{
		EmployeeId: e.EmployeeId,
		Name:       e.Name,
		Email:      e.Email,
		Title:      e.Title,
		ManagerId:  e.ManagerId,
		Active:     e.Active,
		Created:    e.Created,
		Updated:    e.Updated,
	}
}
