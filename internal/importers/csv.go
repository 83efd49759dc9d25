// Package importers parses uploaded CSV files against typed import schemas.
//
// A schema names the required and optional columns for one table. Header
// matching is case-insensitive. A file missing required columns fails as a
// whole with MissingColumnsError; individual malformed lines are collected
// as line errors without aborting the rest of the file.
package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"kenlibrary/internal/entities"
)

// Schema describes the expected columns of one import file.
type Schema struct {
	Entity   string
	Required []string
	Optional []string
}

var (
	Books = Schema{
		Entity:   "books",
		Required: []string{"title", "author", "genre", "default_location"},
		Optional: []string{"tags", "notes"},
	}
	Members = Schema{
		Entity:   "members",
		Required: []string{"name", "phone", "email"},
	}
	Locations = Schema{
		Entity:   "locations",
		Required: []string{"name", "description"},
	}
)

// MissingColumnsError reports required columns absent from the header row.
type MissingColumnsError struct {
	Entity  string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s CSV missing required columns: %s", e.Entity, strings.Join(e.Columns, ", "))
}

// Row maps lowercased column names to trimmed cell values.
type Row map[string]string

// Result holds the parsed rows and any per-line errors.
type Result struct {
	Rows       []Row
	LineErrors []string
}

// Parse reads a CSV stream against the schema. It returns MissingColumnsError
// when required columns are absent; in that case nothing is parsed.
func Parse(r io.Reader, schema Schema) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, column := range schema.Required {
		if _, ok := headerIndex[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Entity: schema.Entity, Columns: missing}
	}

	columns := append(append([]string{}, schema.Required...), schema.Optional...)

	result := &Result{}
	lineNum := 1 // header already read

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.LineErrors = append(result.LineErrors, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		row := Row{}
		for _, column := range columns {
			row[column] = getValue(record, headerIndex, column)
		}

		// A row whose first required column is empty carries no identity
		if row[schema.Required[0]] == "" {
			result.LineErrors = append(result.LineErrors, fmt.Sprintf("Line %d: skipped - missing %s", lineNum, schema.Required[0]))
			continue
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func getValue(record []string, headerIndex map[string]int, column string) string {
	if idx, ok := headerIndex[column]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

// BookRows converts parsed rows into book entities.
func BookRows(rows []Row) []entities.Book {
	books := make([]entities.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, entities.Book{
			Title:           row["title"],
			Author:          row["author"],
			Genre:           row["genre"],
			DefaultLocation: row["default_location"],
			Tags:            row["tags"],
			Notes:           row["notes"],
		})
	}
	return books
}

// MemberRows converts parsed rows into member entities.
func MemberRows(rows []Row) []entities.Member {
	members := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, entities.Member{
			Name:  row["name"],
			Phone: row["phone"],
			Email: row["email"],
		})
	}
	return members
}

// LocationRows converts parsed rows into location entities.
func LocationRows(rows []Row) []entities.Location {
	locations := make([]entities.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, entities.Location{
			Name:        row["name"],
			Description: row["description"],
		})
	}
	return locations
}
