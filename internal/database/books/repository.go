// Package books provides database operations for book records, including the
// bulk insert-if-absent path used by CSV imports and the genre aggregation
// behind the dashboard.
package books

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kenlibrary/internal/entities"
)

// UncategorizedGenre is the label shown for books without a genre.
const UncategorizedGenre = "(Uncategorized)"

// GenreCount is one row of the dashboard genre table.
type GenreCount struct {
	Genre     string `json:"genre"`
	Titles    int64  `json:"titles"`
	IssuedNow int64  `json:"issued_now"` // titles with at least one open transaction
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetByID retrieves a book by ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAll returns all books ordered by title.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("title").Find(&books).Error
	return books, err
}

// FindByTitleAndAuthor retrieves a book by the import de-duplication key.
func (r *Repository) FindByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListByGenre returns books of a single genre ordered by title. The
// UncategorizedGenre label selects books without a genre; an empty genre
// selects everything.
func (r *Repository) ListByGenre(genre string) ([]entities.Book, error) {
	query := r.db.Order("title")
	switch genre {
	case "":
	case UncategorizedGenre:
		query = query.Where("genre = ''")
	default:
		query = query.Where("genre = ?", genre)
	}

	var books []entities.Book
	err := query.Find(&books).Error
	return books, err
}

// GenreSummary aggregates books per genre with the count of titles that are
// currently issued. The grouping is delegated to the database.
func (r *Repository) GenreSummary() ([]GenreCount, error) {
	var summary []GenreCount
	err := r.db.Raw(`
		SELECT
		  CASE WHEN b.genre = '' THEN ? ELSE b.genre END AS genre,
		  COUNT(*) AS titles,
		  SUM(
		    EXISTS(SELECT 1 FROM transactions t
		           WHERE t.book_id = b.id AND t.return_date IS NULL)
		  ) AS issued_now
		FROM books b
		GROUP BY 1
		ORDER BY titles DESC, genre
	`, UncategorizedGenre).Scan(&summary).Error
	return summary, err
}

// ImportRows bulk-inserts books, silently skipping rows that collide with the
// (title, author) unique index. Returns the number of rows actually inserted.
func (r *Repository) ImportRows(rows []entities.Book) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	return result.RowsAffected, result.Error
}

// Delete removes a book; its transactions are removed by the cascade.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.Book{}, id).Error
}

// Count returns the total number of books.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
