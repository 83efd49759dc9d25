// Package exporters serializes full table scans to CSV. Column order matches
// the declared entity fields, which is the order the store creates them in,
// so an export re-imports cleanly.
package exporters

import (
	"encoding/csv"
	"io"
	"strconv"

	"kenlibrary/internal/entities"
)

// Column headers for each exported table.
var (
	BookColumns     = []string{"id", "title", "author", "genre", "default_location", "tags", "notes"}
	MemberColumns   = []string{"id", "name", "phone", "email"}
	LocationColumns = []string{"id", "name", "description"}
)

// BookSource lists books in export order.
type BookSource interface {
	GetAll() ([]entities.Book, error)
}

// MemberSource lists members in export order.
type MemberSource interface {
	GetAll() ([]entities.Member, error)
}

// LocationSource lists locations in export order.
type LocationSource interface {
	GetAll() ([]entities.Location, error)
}

// WriteBooks writes all books as CSV with a header row.
func WriteBooks(w io.Writer, books []entities.Book) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(BookColumns); err != nil {
		return err
	}
	for _, book := range books {
		record := []string{
			strconv.FormatUint(uint64(book.ID), 10),
			book.Title,
			book.Author,
			book.Genre,
			book.DefaultLocation,
			book.Tags,
			book.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMembers writes all members as CSV with a header row.
func WriteMembers(w io.Writer, members []entities.Member) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(MemberColumns); err != nil {
		return err
	}
	for _, member := range members {
		record := []string{
			strconv.FormatUint(uint64(member.ID), 10),
			member.Name,
			member.Phone,
			member.Email,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteLocations writes all locations as CSV with a header row.
func WriteLocations(w io.Writer, locations []entities.Location) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(LocationColumns); err != nil {
		return err
	}
	for _, location := range locations {
		record := []string{
			strconv.FormatUint(uint64(location.ID), 10),
			location.Name,
			location.Description,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
