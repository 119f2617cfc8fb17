package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/urfave/cli/v3"
)

type importResult struct {
	Registered int      `json:"registered"`
	Skipped    []string `json:"skipped,omitempty"`
}

// ImportArtists uploads a CSV of artists.
func (r *Runner) ImportArtists(ctx context.Context, cmd *cli.Command) error {
	query := url.Values{}
	if cmd.Bool("force") {
		query.Set("force", "true")
	}
	if cmd.Bool("best-effort") {
		query.Set("bestEffort", "true")
	}

	return r.importCSV(ctx, cmd, "/api/artists/import", query)
}

// ImportReleases uploads a CSV of releases. Each row's artist
// is resolved by name on the server.
func (r *Runner) ImportReleases(ctx context.Context, cmd *cli.Command) error {
	query := url.Values{}
	if cmd.Bool("best-effort") {
		query.Set("bestEffort", "true")
	}

	return r.importCSV(ctx, cmd, "/api/releases/import", query)
}

func (r *Runner) importCSV(ctx context.Context, cmd *cli.Command, path string, query url.Values) error {
	csvPath := cmd.StringArg("path")
	if csvPath == "" {
		return fmt.Errorf("path to a CSV file is required")
	}

	p, err := r.profile(cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	if len(query) != 0 {
		path = path + "?" + query.Encode()
	}
	resp, err := r.request(ctx, p, http.MethodPost, path, file, "text/csv")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return asError(resp)
	}

	result := importResult{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	r.logger.Info("imported", "registered", result.Registered, "skipped", len(result.Skipped))
	for _, skipped := range result.Skipped {
		r.logger.Warn("skipped", "row", skipped)
	}
	return nil
}

// ExportArtists downloads all artists as CSV.
func (r *Runner) ExportArtists(ctx context.Context, cmd *cli.Command) error {
	return r.exportCSV(ctx, cmd, "/api/artists/export.csv")
}

// ExportReleases downloads all releases as CSV.
func (r *Runner) ExportReleases(ctx context.Context, cmd *cli.Command) error {
	return r.exportCSV(ctx, cmd, "/api/releases/export.csv")
}

func (r *Runner) exportCSV(ctx context.Context, cmd *cli.Command, path string) error {
	p, err := r.profile(cmd)
	if err != nil {
		return err
	}

	resp, err := r.request(ctx, p, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return asError(resp)
	}

	out := r.output
	if outputPath := cmd.String("output"); outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return nil
}
