package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	kdb "github.com/tonearm/labeld/pkg/db"
	"github.com/tonearm/labeld/pkg/utils"
)

// ArtistResolver maps an artist name in a CSV cell to an artist id.
type ArtistResolver func(ctx context.Context, name string) (string, error)

// ReleaseRow is a parsed record together with its source line.
type ReleaseRow struct {
	Line int
	Spec kdb.ReleaseSpec
}

// ReadReleases parses a CSV of releases.
//
// Required columns are title, catalog number, kind and artist
// (the primary owner, resolved by name). Release date is optional.
func ReadReleases(ctx context.Context, r io.Reader, resolve ArtistResolver) ([]ReleaseRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read header: %w", err)
	}

	columns := map[string]int{}
	for i, h := range header {
		columns[normalizeHeader(h)] = i
	}
	for _, required := range []string{"title", "catalognumber", "kind", "artist"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("%s column is required", required)
		}
	}

	cell := func(record []string, name string) string {
		col, ok := columns[name]
		if !ok || len(record) <= col {
			return ""
		}
		return CleanCell(record[col])
	}

	rows := []ReleaseRow{}
	rowErrors := []RowError{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}

		spec := kdb.ReleaseSpec{
			Title:         cell(record, "title"),
			CatalogNumber: cell(record, "catalognumber"),
			Kind:          kdb.ReleaseKind(strings.ToLower(cell(record, "kind"))),
		}

		if dateCell := cell(record, "releasedate"); dateCell != "" {
			date, err := ParseDate(dateCell)
			if err != nil {
				rowErrors = append(rowErrors, RowError{Line: line, Err: err})
				continue
			}
			spec.ReleaseDate = &date
		}

		artistName := cell(record, "artist")
		if artistName == "" {
			rowErrors = append(rowErrors, RowError{
				Line: line, Err: errors.New("artist is required"),
			})
			continue
		}
		artistId, err := resolve(ctx, artistName)
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Line: line,
				Err:  fmt.Errorf("artist '%s': %w", artistName, err),
			})
			continue
		}
		spec.Owners = []kdb.Owner{{ArtistId: artistId, Credit: kdb.PrimaryArtist}}

		if err := spec.Validate(); err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, ReleaseRow{Line: line, Spec: spec})
	}

	return rows, rowErrors, nil
}

// ImportReleases reads releases from r and registers them as drafts.
//
// Without Options.BestEffort, any broken row aborts the run and
// nothing is registered: all rows go to the database in a single batch.
func ImportReleases(ctx context.Context, releases kdb.ReleaseInterface, r io.Reader, resolve ArtistResolver, options Options) (Result, error) {
	rows, rowErrors, err := ReadReleases(ctx, r, resolve)
	if err != nil {
		return Result{}, err
	}

	if !options.BestEffort {
		if 0 < len(rowErrors) {
			return Result{}, rowErrors[0]
		}
		registered, err := releases.RegisterAll(
			ctx,
			utils.Map(rows, func(row ReleaseRow) kdb.ReleaseSpec { return row.Spec }),
		)
		if err != nil {
			return Result{}, err
		}
		return Result{Registered: registered}, nil
	}

	result := Result{Skipped: rowErrors}
	for _, row := range rows {
		releaseId, err := releases.Register(ctx, row.Spec)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{
				Line: row.Line, Err: err,
			})
			continue
		}
		result.Registered = append(result.Registered, releaseId)
	}
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Line < result.Skipped[j].Line
	})

	return result, nil
}

// WriteReleases writes releases as CSV, in a stable column order.
//
// Owner artist names are resolved from the given artists;
// unresolved owners fall back to the raw id.
func WriteReleases(w io.Writer, releases []kdb.Release, artists map[string]*kdb.Artist) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"title", "catalog_number", "kind", "status", "release_date", "artists", "created_at",
	}); err != nil {
		return err
	}

	for _, r := range releases {
		releaseDate := ""
		if r.ReleaseDate != nil {
			releaseDate = r.ReleaseDate.Format("2006-01-02")
		}

		names := make([]string, 0, len(r.Owners))
		for _, o := range r.Owners {
			if a, ok := artists[o.ArtistId]; ok {
				names = append(names, a.Name)
			} else {
				names = append(names, o.ArtistId)
			}
		}

		if err := writer.Write([]string{
			r.Title,
			r.CatalogNumber,
			string(r.Kind),
			string(r.Status),
			releaseDate,
			strings.Join(names, ";"),
			r.Created.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
