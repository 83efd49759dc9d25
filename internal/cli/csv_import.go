package cli

import (
	"flag"
	"fmt"
	"os"

	"kenlibrary/internal/config"
	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/importers"
)

// CSVImportCommand loads a CSV file into the books, members or locations
// table without going through the web UI.
type CSVImportCommand struct {
	Entity       string
	FilePath     string
	DatabasePath string
	Verbose      bool
}

func NewCSVImportCommand() *CSVImportCommand {
	return &CSVImportCommand{}
}

func (cmd *CSVImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)

	fs.StringVar(&cmd.Entity, "entity", "", "What to import: books, members or locations (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every skipped line")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -entity <books|members|locations> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a CSV file into the library database.\n\n")
		fmt.Fprintf(os.Stderr, "Required columns (case-insensitive):\n")
		fmt.Fprintf(os.Stderr, "  books:     title, author, genre, default_location\n")
		fmt.Fprintf(os.Stderr, "  members:   name, phone, email\n")
		fmt.Fprintf(os.Stderr, "  locations: name, description\n\n")
		fmt.Fprintf(os.Stderr, "Books and locations already present are skipped; members always append.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -entity books -file catalogue.csv -db ./library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Entity == "" {
		return fmt.Errorf("required flag -entity not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	switch cmd.Entity {
	case "books", "members", "locations":
	default:
		return fmt.Errorf("unknown entity %q: expected books, members or locations", cmd.Entity)
	}

	return nil
}

func (cmd *CSVImportCommand) Run() error {
	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	db, err := database.NewDatabase(cmd.DatabasePath, 0)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var schema importers.Schema
	switch cmd.Entity {
	case "books":
		schema = importers.Books
	case "members":
		schema = importers.Members
	case "locations":
		schema = importers.Locations
	}

	result, err := importers.Parse(file, schema)
	if err != nil {
		return err
	}

	var inserted int64
	switch cmd.Entity {
	case "books":
		inserted, err = books.NewRepository(db.DB).ImportRows(importers.BookRows(result.Rows))
	case "members":
		inserted, err = members.NewRepository(db.DB).ImportRows(importers.MemberRows(result.Rows))
	case "locations":
		inserted, err = locations.NewRepository(db.DB).ImportRows(importers.LocationRows(result.Rows))
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d of %d %s rows", inserted, len(result.Rows), cmd.Entity)
	if skipped := int64(len(result.Rows)) - inserted; skipped > 0 {
		fmt.Printf(" (%d already present)", skipped)
	}
	fmt.Println()

	if len(result.LineErrors) > 0 {
		fmt.Printf("Skipped %d malformed lines\n", len(result.LineErrors))
		if cmd.Verbose {
			for _, lineErr := range result.LineErrors {
				fmt.Printf("  %s\n", lineErr)
			}
		}
	}

	return nil
}
