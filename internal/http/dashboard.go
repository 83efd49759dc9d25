package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
)

type DashboardController struct {
	db      *database.Database
	books   *books.Repository
	flashes flashStore
}

func NewDashboardController(db *database.Database, b *books.Repository, flashes flashStore) *DashboardController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &DashboardController{db: db, books: b, flashes: flashes}
}

// Page renders the dashboard: headline counters, the per-genre summary and
// an optional title listing filtered by the selected genre.
func (d *DashboardController) Page(c *gin.Context) {
	totalBooks, openIssues, totalIssues, err := d.db.GetStats()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading stats: %s", err.Error())
		return
	}

	genres, err := d.books.GenreSummary()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading genres: %s", err.Error())
		return
	}

	selected := c.Query("genre")
	listing, err := d.books.ListByGenre(selected)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	renderPage(c, d.flashes, "dashboard", gin.H{
		"Active":        "dashboard",
		"TotalBooks":    totalBooks,
		"OpenIssues":    openIssues,
		"TotalIssues":   totalIssues,
		"Genres":        genres,
		"SelectedGenre": selected,
		"Listing":       listing,
		"Uncategorized": books.UncategorizedGenre,
	})
}
