package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
)

// APIController serves the small read-only JSON surface used by scripts
// and monitoring.
type APIController struct {
	db    *database.Database
	books *books.Repository
}

func NewAPIController(db *database.Database, b *books.Repository) *APIController {
	return &APIController{db: db, books: b}
}

type StatsResponse struct {
	TotalBooks  int64 `json:"total_books"`
	OpenIssues  int64 `json:"open_issues"`
	TotalIssues int64 `json:"total_issues"`
}

func (a *APIController) GetStats(c *gin.Context) {
	totalBooks, openIssues, totalIssues, err := a.db.GetStats()
	if err != nil {
		respondInternalError(c, err, "stats")
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		TotalBooks:  totalBooks,
		OpenIssues:  openIssues,
		TotalIssues: totalIssues,
	})
}

func (a *APIController) GetAllBooks(c *gin.Context) {
	rows, err := a.books.GetAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"books": rows,
		"count": len(rows),
	})
}
