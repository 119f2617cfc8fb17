package accounts

import (
	"time"

	"github.com/tonearm/labeld/pkg/cmp"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// Spec is an account to be registered.
//
// Password travels raw over the API and is hashed server side.
type Spec struct {
	Login      string  `json:"login"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	EmployeeId *string `json:"employeeId,omitempty"`
}

type Detail struct {
	Login      string    `json:"login"`
	Role       string    `json:"role"`
	EmployeeId *string   `json:"employeeId,omitempty"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Login == o.Login &&
		d.Role == o.Role &&
		cmp.PEqEq(d.EmployeeId, o.EmployeeId)
}

func ComposeDetail(a kdb.Account) Detail {
	return Detail{
		Login:      a.Login,
		Role:       string(a.Role),
		EmployeeId: a.EmployeeId,
		Created:    a.Created,
		Updated:    a.Updated,
	}
}

// PasswordChange replaces the password of an account.
type PasswordChange struct {
	Password string `json:"password"`
}
