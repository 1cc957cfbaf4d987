// Package importers loads catalog data from external files.
//
// The catalog CSV format is one book per row:
//
//	author_name,author_email,title,published_on[,isbn]
//
// with an optional header row. published_on is an ISO date (2006-01-02).
// Authors are deduplicated by email, books by title within one author.
package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
)

// CatalogRow is a single parsed row of a catalog CSV file.
type CatalogRow struct {
	AuthorName  string
	AuthorEmail string
	Title       string
	PublishedOn time.Time
	ISBN        string
}

// ParseCatalogCSV parses a catalog CSV file. Rows that cannot be parsed are
// reported as row-level errors without aborting the rest of the file; a
// non-nil error is returned only when the file itself is unreadable.
func ParseCatalogCSV(r io.Reader) ([]CatalogRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow the optional isbn column
	reader.TrimLeadingSpace = true

	var rows []CatalogRow
	var rowErrors []string

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line++

		// Skip an optional header row
		if line == 1 && isHeaderRow(record) {
			continue
		}

		row, err := parseRow(record)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

// AuthorEmails returns the distinct author emails in file order.
func AuthorEmails(rows []CatalogRow) []string {
	return lo.Uniq(lo.Map(rows, func(row CatalogRow, _ int) string {
		return row.AuthorEmail
	}))
}

func parseRow(record []string) (CatalogRow, error) {
	if len(record) < 4 {
		return CatalogRow{}, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}

	row := CatalogRow{
		AuthorName:  strings.TrimSpace(record[0]),
		AuthorEmail: strings.ToLower(strings.TrimSpace(record[1])),
		Title:       strings.TrimSpace(record[2]),
	}
	if len(record) >= 5 {
		row.ISBN = strings.TrimSpace(record[4])
	}

	if row.AuthorName == "" {
		return CatalogRow{}, fmt.Errorf("author name is empty")
	}
	if row.AuthorEmail == "" {
		return CatalogRow{}, fmt.Errorf("author email is empty")
	}
	if row.Title == "" {
		return CatalogRow{}, fmt.Errorf("title is empty")
	}

	published, err := time.Parse("2006-01-02", strings.TrimSpace(record[3]))
	if err != nil {
		return CatalogRow{}, fmt.Errorf("invalid published_on %q: %w", record[3], err)
	}
	row.PublishedOn = published

	return row, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "author_name")
}
