package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	apierr "github.com/tonearm/labeld/pkg/api/types/errors"
	"github.com/tonearm/labeld/pkg/configs/profile"
)

// Runner holds the dependencies shared by labelctl commands.
type Runner struct {
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	loadProfile func(path string) (*profile.Profile, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	LoadProfile func(path string) (*profile.Profile, error)
}

// NewRunner creates a new Runner. Zero-valued options fall back
// to defaults.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LoadProfile == nil {
		opts.LoadProfile = profile.Load
	}

	return &Runner{
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		loadProfile: opts.LoadProfile,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, schemaCommand, importCommand, exportCommand, accountCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// profile loads the profile named by the --profile flag.
//
// The --token flag, when set, overrides the token in the file.
func (r *Runner) profile(cmd *cli.Command) (*profile.Profile, error) {
	p, err := r.loadProfile(cmd.String("profile"))
	if err != nil {
		return nil, err
	}
	if token := cmd.String("token"); token != "" {
		p.Server.Token = token
	}
	return p, nil
}

func (r *Runner) request(
	ctx context.Context, p *profile.Profile,
	method string, path string, body io.Reader, contentType string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.Server.URL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if p.Server.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Server.Token)
	}

	return r.httpClient.Do(req)
}

// asError converts a non-2xx response into an error,
// recovering the server's error envelope when there is one.
func asError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	envelope := apierr.ErrorResponse{}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message.Reason != "" {
		return fmt.Errorf("%s: %s", resp.Status, envelope.Message.String())
	}
	return fmt.Errorf("%s: %s", resp.Status, string(body))
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return err
	}
	return nil
}
