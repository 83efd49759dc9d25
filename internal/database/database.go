package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"kenlibrary/internal/entities"
)

// requiredTables are the objects the schema manager owns. If a non-table
// object (view, trigger, ...) squats on one of these names it is dropped and
// the table is recreated.
var requiredTables = []string{"books", "members", "locations", "transactions"}

var extraIndexes = []string{
	`CREATE INDEX IF NOT EXISTS ix_trans_open ON transactions(book_id) WHERE return_date IS NULL`,
	`CREATE INDEX IF NOT EXISTS ix_trans_member ON transactions(member_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_books_title_author ON books(title, author)`,
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the SQLite database at dbPath, repairs name
// collisions, migrates the schema and seeds the default locations. Safe to
// call repeatedly: existing data is never touched beyond the collision repair.
func NewDatabase(dbPath string, seedLocations int) (*Database, error) {
	// Enable busy_timeout and foreign keys; transaction FKs cascade deletes.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.EnsureSchema(); err != nil {
		return nil, err
	}

	if err := database.SeedDefaultLocations(seedLocations); err != nil {
		return nil, fmt.Errorf("failed to seed locations: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// EnsureSchema repairs name collisions, migrates all entities and creates the
// supporting indexes. Idempotent.
func (d *Database) EnsureSchema() error {
	for _, name := range requiredTables {
		if err := d.ensureIsTable(name); err != nil {
			return fmt.Errorf("failed to repair object %s: %w", name, err)
		}
	}

	err := d.DB.AutoMigrate(
		&entities.Book{},
		&entities.Member{},
		&entities.Location{},
		&entities.LoanTransaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, stmt := range extraIndexes {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// ensureIsTable drops any same-named non-table object so AutoMigrate can
// create the real table in its place.
func (d *Database) ensureIsTable(name string) error {
	objectType, err := d.objectType(name)
	if err != nil {
		return err
	}
	if objectType == "" || objectType == "table" {
		return nil
	}

	log.Printf("Object %q exists as a %s, dropping it so the table can be created", name, objectType)
	return d.DB.Exec(fmt.Sprintf("DROP %s %s", strings.ToUpper(objectType), name)).Error
}

func (d *Database) objectType(name string) (string, error) {
	var objectType string
	err := d.DB.Raw(`SELECT type FROM sqlite_master WHERE name = ?`, name).Scan(&objectType).Error
	return objectType, err
}

// SeedDefaultLocations creates "Compartment 1..n" rows, inserting only those
// not already present.
func (d *Database) SeedDefaultLocations(n int) error {
	for i := 1; i <= n; i++ {
		location := entities.Location{
			Name:        fmt.Sprintf("Compartment %d", i),
			Description: fmt.Sprintf("Shelf compartment #%d", i),
		}

		var existing entities.Location
		result := d.DB.Where("name = ?", location.Name).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&location).Error; err != nil {
				return fmt.Errorf("failed to create location %s: %w", location.Name, err)
			}
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// MissingTables returns the required table names that are absent or
// shadowed by a non-table object. Empty means the schema is complete.
func (d *Database) MissingTables() ([]string, error) {
	var missing []string
	for _, name := range requiredTables {
		objectType, err := d.objectType(name)
		if err != nil {
			return nil, err
		}
		if objectType != "table" {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// CountLocations returns the number of storage locations, seeded or not.
func (d *Database) CountLocations() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.Location{}).Count(&count).Error
	return count, err
}

// GetStats returns the dashboard counters: total books, currently open
// transactions, and total transactions ever recorded.
func (d *Database) GetStats() (totalBooks int64, openIssues int64, totalIssues int64, err error) {
	err = d.DB.Model(&entities.Book{}).Count(&totalBooks).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.LoanTransaction{}).Where("return_date IS NULL").Count(&openIssues).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.LoanTransaction{}).Count(&totalIssues).Error
	return
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
