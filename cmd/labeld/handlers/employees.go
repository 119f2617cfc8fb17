package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apiemployees "github.com/tonearm/labeld/pkg/api/types/employees"
	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	kdb "github.com/tonearm/labeld/pkg/db"
)

func FindEmployeeHandler(dbEmployee kdb.EmployeeInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		query := kdb.EmployeeFindQuery{Name: c.QueryParam("name")}
		switch c.QueryParam("active") {
		case "":
			// not filtered
		case "true":
			active := true
			query.Active = &active
		case "false":
			active := false
			query.Active = &active
		default:
			return apierr.BadRequest("query parameter active should be true or false", nil)
		}

		employeeIds, err := dbEmployee.Find(ctx, query)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(employeeIds) == 0 {
			return c.JSON(http.StatusOK, []apiemployees.Detail{})
		}

		employees, err := dbEmployee.Get(ctx, employeeIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apiemployees.Detail, 0, len(employees))
		for _, employeeId := range employeeIds {
			if e, ok := employees[employeeId]; ok {
				found = append(found, apiemployees.ComposeDetail(*e))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetEmployeeHandler(dbEmployee kdb.EmployeeInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		employeeId := c.Param(paramKey)

		employees, err := dbEmployee.Get(ctx, []string{employeeId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		e, ok := employees[employeeId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiemployees.ComposeDetail(*e))
	}
}

func RegisterEmployeeHandler(dbEmployee kdb.EmployeeInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec := apiemployees.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		employeeId, err := dbEmployee.Register(ctx, spec.ToDBSpec())
		if err != nil {
			return asAPIError(err)
		}

		employees, err := dbEmployee.Get(ctx, []string{employeeId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		e, ok := employees[employeeId]
		if !ok {
			return apierr.InternalServerError(errors.New("registered employee is gone"))
		}

		return c.JSON(http.StatusOK, apiemployees.ComposeDetail(*e))
	}
}

func UpdateEmployeeHandler(dbEmployee kdb.EmployeeInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		employeeId := c.Param(paramKey)

		spec := apiemployees.Spec{}
		dec := json.NewDecoder(c.Request().Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return apierr.BadRequest("can not understand the requested json", err)
		}

		if err := dbEmployee.Update(ctx, employeeId, spec.ToDBSpec()); err != nil {
			if cyclic := new(kdb.ErrCyclicManager); errors.As(err, cyclic) {
				return apierr.Conflict(
					cyclic.Error(),
					apierr.WithAdvice("pick a manager outside the employee's own subtree"),
					apierr.WithError(err),
				)
			}
			return asAPIError(err)
		}

		employees, err := dbEmployee.Get(ctx, []string{employeeId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		e, ok := employees[employeeId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiemployees.ComposeDetail(*e))
	}
}

func DeactivateEmployeeHandler(dbEmployee kdb.EmployeeInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		employeeId := c.Param(paramKey)

		if err := dbEmployee.Deactivate(ctx, employeeId); err != nil {
			return asAPIError(err)
		}

		employees, err := dbEmployee.Get(ctx, []string{employeeId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		e, ok := employees[employeeId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiemployees.ComposeDetail(*e))
	}
}

func SubordinatesHandler(dbEmployee kdb.EmployeeInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		subordinateIds, err := dbEmployee.Subordinates(ctx, c.Param(paramKey))
		if err != nil {
			return asAPIError(err)
		}
		if len(subordinateIds) == 0 {
			return c.JSON(http.StatusOK, []apiemployees.Detail{})
		}

		employees, err := dbEmployee.Get(ctx, subordinateIds)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apiemployees.Detail, 0, len(employees))
		for _, employeeId := range subordinateIds {
			if e, ok := employees[employeeId]; ok {
				found = append(found, apiemployees.ComposeDetail(*e))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}
