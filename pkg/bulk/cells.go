// Package bulk reads and writes catalog records as CSV,
// tolerant of the files label staff actually produce.
package bulk

import (
	"fmt"
	"strings"
	"time"
)

// header match ignores case, whitespace and punctuation,
// so "Catalog Number", "catalog_number" and "CATALOG-NUMBER" all match.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanCell trims a cell, collapses inner whitespace and
// maps the usual "no value" markers to the empty string.
func CleanCell(cell string) string {
	cell = strings.Join(strings.Fields(cell), " ")
	switch strings.ToLower(cell) {
	case "-", "n/a", "null":
		return ""
	}
	return cell
}

// SplitAliases splits an alias cell on ";" or "|".
func SplitAliases(cell string) []string {
	cell = CleanCell(cell)
	if cell == "" {
		return nil
	}

	aliases := []string{}
	for _, part := range strings.FieldsFunc(cell, func(r rune) bool {
		return r == ';' || r == '|'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			aliases = append(aliases, part)
		}
	}
	return aliases
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"Jan 2, 2006",
}

// ParseDate reads a date cell in any of the accepted layouts.
func ParseDate(cell string) (time.Time, error) {
	cell = CleanCell(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date: %s", cell)
}
