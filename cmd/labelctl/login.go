package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	apiauth "github.com/tonearm/labeld/pkg/api/types/auth"
)

// Login trades credentials for a session token and prints it.
//
// The token can be pasted into the profile or passed with --token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	p, err := r.profile(cmd)
	if err != nil {
		return err
	}

	body, err := json.Marshal(apiauth.LoginRequest{
		Login:    cmd.String("login"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}

	resp, err := r.request(
		ctx, p, http.MethodPost, "/api/auth/login",
		bytes.NewReader(body), "application/json",
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return asError(resp)
	}

	token := apiauth.TokenResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}

	r.logger.Info("logged in", "expiresIn", token.ExpiresIn)
	if _, err := fmt.Fprintln(r.output, token.Token); err != nil {
		return err
	}
	return nil
}
