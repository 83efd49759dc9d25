package cli

import (
	"flag"
	"fmt"
	"os"

	"kenlibrary/internal/config"
	"kenlibrary/internal/database"
)

// RepairCommand re-runs schema initialization and default location
// seeding against an existing database file.
type RepairCommand struct {
	DatabasePath  string
	SeedLocations int
}

func NewRepairCommand() *RepairCommand {
	return &RepairCommand{}
}

func (cmd *RepairCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("repair", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.IntVar(&cmd.SeedLocations, "seed-locations", config.DefaultLocationCount, "Number of default compartment locations to ensure")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s repair [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Verify the database schema, replacing colliding non-table objects,\n")
		fmt.Fprintf(os.Stderr, "and re-seed the default locations. Existing rows are untouched.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *RepairCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, 0)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(); err != nil {
		return fmt.Errorf("schema repair failed: %w", err)
	}
	if err := db.SeedDefaultLocations(cmd.SeedLocations); err != nil {
		return fmt.Errorf("location seeding failed: %w", err)
	}

	fmt.Printf("Schema verified and %d default locations ensured in %s\n", cmd.SeedLocations, cmd.DatabasePath)
	return nil
}
