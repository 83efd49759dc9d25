package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/entities"
)

type BooksController struct {
	books     *books.Repository
	locations *locations.Repository
	flashes   flashStore
}

func NewBooksController(b *books.Repository, l *locations.Repository, flashes flashStore) *BooksController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &BooksController{books: b, locations: l, flashes: flashes}
}

// Page renders the catalogue table and the add-book form. Location names
// are offered as suggestions for the default location field.
func (ctrl *BooksController) Page(c *gin.Context) {
	allBooks, err := ctrl.books.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}
	locationNames, err := ctrl.locations.Names()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading locations: %s", err.Error())
		return
	}

	renderPage(c, ctrl.flashes, "books", gin.H{
		"Active":        "books",
		"Books":         allBooks,
		"LocationNames": locationNames,
	})
}

// Create adds a book from the form. Title is required; everything else
// is free text.
func (ctrl *BooksController) Create(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		ctrl.flashes.SetFlashError(c.Request, "Title is required.")
		redirectAfterPost(c, "/books")
		return
	}

	book := entities.Book{
		Title:           title,
		Author:          strings.TrimSpace(c.PostForm("author")),
		Genre:           strings.TrimSpace(c.PostForm("genre")),
		DefaultLocation: strings.TrimSpace(c.PostForm("default_location")),
		Tags:            strings.TrimSpace(c.PostForm("tags")),
		Notes:           strings.TrimSpace(c.PostForm("notes")),
	}
	if err := ctrl.books.Create(&book); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Could not add the book: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Book added.")
	}
	redirectAfterPost(c, "/books")
}

// Delete removes a book and, through the schema's cascade, its loans.
func (ctrl *BooksController) Delete(c *gin.Context) {
	id, ok := parseFormID(c, "book_id")
	if !ok {
		ctrl.flashes.SetFlashError(c.Request, "Select a book to delete.")
		redirectAfterPost(c, "/books")
		return
	}

	if err := ctrl.books.Delete(id); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Could not delete the book: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Book deleted.")
	}
	redirectAfterPost(c, "/books")
}
