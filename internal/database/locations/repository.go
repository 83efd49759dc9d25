// Package locations provides database operations for storage locations.
// Location names are unique; every insert path is insert-if-absent.
package locations

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kenlibrary/internal/entities"
)

// Repository handles all location database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new locations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a location, silently no-opping if the name already exists.
// Returns true when a row was actually inserted.
func (r *Repository) Create(location *entities.Location) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(location)
	return result.RowsAffected > 0, result.Error
}

// GetAll returns all locations in insertion order.
func (r *Repository) GetAll() ([]entities.Location, error) {
	var locations []entities.Location
	err := r.db.Order("id").Find(&locations).Error
	return locations, err
}

// Names returns just the location names, in insertion order. Used to populate
// the default-location suggestion list on the books form.
func (r *Repository) Names() ([]string, error) {
	var names []string
	err := r.db.Model(&entities.Location{}).Order("id").Pluck("name", &names).Error
	return names, err
}

// ImportRows bulk-inserts locations, skipping duplicate names. Returns the
// number of rows actually inserted.
func (r *Repository) ImportRows(rows []entities.Location) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	return result.RowsAffected, result.Error
}

// Count returns the total number of locations.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Location{}).Count(&count).Error
	return count, err
}
