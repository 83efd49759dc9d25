// Package members provides database operations for library members.
package members

import (
	"gorm.io/gorm"

	"kenlibrary/internal/entities"
)

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new member.
func (r *Repository) Create(member *entities.Member) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a member by ID.
func (r *Repository) GetByID(id uint) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetAll returns all members ordered by name.
func (r *Repository) GetAll() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Order("name").Find(&members).Error
	return members, err
}

// ImportRows bulk-inserts members. Member imports append: there is no
// de-duplication key for people.
func (r *Repository) ImportRows(rows []entities.Member) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.Create(&rows)
	return result.RowsAffected, result.Error
}

// Delete removes a member; their transactions are removed by the cascade.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Member{}, id).Error
}

// Count returns the total number of members.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Count(&count).Error
	return count, err
}
