package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"kenlibrary/internal/config"
	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/exporters"
)

// CSVExportCommand dumps a table to CSV, to a file or stdout.
type CSVExportCommand struct {
	Entity       string
	OutputPath   string
	DatabasePath string
}

func NewCSVExportCommand() *CSVExportCommand {
	return &CSVExportCommand{}
}

func (cmd *CSVExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ExitOnError)

	fs.StringVar(&cmd.Entity, "entity", "", "What to export: books, members or locations (required)")
	fs.StringVar(&cmd.OutputPath, "out", "", "Output file (default: stdout)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-csv -entity <books|members|locations> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export a library table as CSV with a header row.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s export-csv -entity books -out catalogue.csv\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Entity == "" {
		return fmt.Errorf("required flag -entity not provided")
	}
	switch cmd.Entity {
	case "books", "members", "locations":
	default:
		return fmt.Errorf("unknown entity %q: expected books, members or locations", cmd.Entity)
	}

	return nil
}

func (cmd *CSVExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, 0)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var out io.Writer = os.Stdout
	if cmd.OutputPath != "" {
		f, err := os.Create(cmd.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch cmd.Entity {
	case "books":
		rows, err := books.NewRepository(db.DB).GetAll()
		if err != nil {
			return err
		}
		return exporters.WriteBooks(out, rows)
	case "members":
		rows, err := members.NewRepository(db.DB).GetAll()
		if err != nil {
			return err
		}
		return exporters.WriteMembers(out, rows)
	case "locations":
		rows, err := locations.NewRepository(db.DB).GetAll()
		if err != nil {
			return err
		}
		return exporters.WriteLocations(out, rows)
	}
	return nil
}
