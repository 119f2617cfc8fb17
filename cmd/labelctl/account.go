package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	apiaccounts "github.com/tonearm/labeld/pkg/api/types/accounts"
	kdb "github.com/tonearm/labeld/pkg/db"
)

// AccountAdd registers a new account. Requires an admin token.
func (r *Runner) AccountAdd(ctx context.Context, cmd *cli.Command) error {
	p, err := r.profile(cmd)
	if err != nil {
		return err
	}

	role := cmd.String("role")
	if !kdb.Role(role).Known() {
		return fmt.Errorf("unknown role: %s", role)
	}

	spec := apiaccounts.Spec{
		Login:    cmd.String("login"),
		Password: cmd.String("password"),
		Role:     role,
	}
	if employeeId := cmd.String("employee-id"); employeeId != "" {
		spec.EmployeeId = &employeeId
	}

	body, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	resp, err := r.request(
		ctx, p, http.MethodPost, "/api/accounts",
		bytes.NewReader(body), "application/json",
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return asError(resp)
	}

	detail := apiaccounts.Detail{}
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return err
	}

	r.logger.Info("account registered", "login", detail.Login, "role", detail.Role)
	return r.writeJSON(detail)
}
