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

// RowError locates a broken record in the imported file.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Options tune an import run.
type Options struct {
	// register artists even when similar ones exist
	Force bool

	// skip and report broken rows instead of aborting
	BestEffort bool
}

// Result reports what an import run did.
type Result struct {
	Registered []string
	Skipped    []RowError
}

// ArtistRow is a parsed record together with its source line.
type ArtistRow struct {
	Line int
	Spec kdb.ArtistSpec
}

// ReadArtists parses a CSV of artists.
//
// The name column is required; aliases, country and email are
// picked up when present, other columns are ignored.
func ReadArtists(r io.Reader) ([]ArtistRow, []RowError, error) {
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
	nameCol, ok := columns["name"]
	if !ok {
		return nil, nil, errors.New("name column is required")
	}

	cell := func(record []string, col int, ok bool) string {
		if !ok || len(record) <= col {
			return ""
		}
		return CleanCell(record[col])
	}

	rows := []ArtistRow{}
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

		aliasCol, hasAlias := columns["aliases"]
		countryCol, hasCountry := columns["country"]
		emailCol, hasEmail := columns["email"]

		spec := kdb.ArtistSpec{
			Name:    cell(record, nameCol, true),
			Country: cell(record, countryCol, hasCountry),
			Email:   cell(record, emailCol, hasEmail),
		}
		if hasAlias && len(record) > aliasCol {
			spec.Aliases = SplitAliases(record[aliasCol])
		}

		if err := spec.Validate(); err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, ArtistRow{Line: line, Spec: spec})
	}

	return rows, rowErrors, nil
}

// ImportArtists reads artists from r and registers them.
//
// Without Options.BestEffort, any broken or conflicting row aborts
// the run and nothing is registered: all rows go to the database
// in a single batch.
func ImportArtists(ctx context.Context, artists kdb.ArtistInterface, r io.Reader, options Options) (Result, error) {
	rows, rowErrors, err := ReadArtists(r)
	if err != nil {
		return Result{}, err
	}

	if !options.BestEffort {
		if 0 < len(rowErrors) {
			return Result{}, rowErrors[0]
		}
		registered, err := artists.RegisterAll(
			ctx,
			utils.Map(rows, func(row ArtistRow) kdb.ArtistSpec { return row.Spec }),
			options.Force,
		)
		if err != nil {
			return Result{}, err
		}
		return Result{Registered: registered}, nil
	}

	result := Result{Skipped: rowErrors}
	for _, row := range rows {
		artistId, err := artists.Register(ctx, row.Spec, options.Force)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{
				Line: row.Line, Err: err,
			})
			continue
		}
		result.Registered = append(result.Registered, artistId)
	}
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Line < result.Skipped[j].Line
	})

	return result, nil
}

// WriteArtists writes artists as CSV, in a stable column order.
func WriteArtists(w io.Writer, artists []kdb.Artist) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"name", "aliases", "country", "email", "created_at",
	}); err != nil {
		return err
	}

	for _, a := range artists {
		if err := writer.Write([]string{
			a.Name,
			joinAliases(a.Aliases),
			a.Country,
			a.Email,
			a.Created.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func joinAliases(aliases []string) string {
	return strings.Join(aliases, ";")
}
