package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/database/transactions"
)

type IssueReturnController struct {
	books        *books.Repository
	members      *members.Repository
	transactions *transactions.Repository
	historyLimit int
	flashes      flashStore
}

func NewIssueReturnController(b *books.Repository, m *members.Repository, t *transactions.Repository, historyLimit int, flashes flashStore) *IssueReturnController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &IssueReturnController{
		books:        b,
		members:      m,
		transactions: t,
		historyLimit: historyLimit,
		flashes:      flashes,
	}
}

// Page renders the issue/return screen: the issue form, the open loans
// table with per-row return buttons, and recent history.
func (ctrl *IssueReturnController) Page(c *gin.Context) {
	allBooks, err := ctrl.books.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}
	allMembers, err := ctrl.members.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading members: %s", err.Error())
		return
	}
	openIssues, err := ctrl.transactions.OpenIssues()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading open loans: %s", err.Error())
		return
	}
	history, err := ctrl.transactions.History(ctrl.historyLimit)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading history: %s", err.Error())
		return
	}

	renderPage(c, ctrl.flashes, "issue-return", gin.H{
		"Active":     "issue-return",
		"Books":      allBooks,
		"Members":    allMembers,
		"OpenIssues": openIssues,
		"History":    history,
		"CanIssue":   len(allBooks) > 0 && len(allMembers) > 0,
	})
}

// Issue records a new loan from the issue form.
func (ctrl *IssueReturnController) Issue(c *gin.Context) {
	bookID, ok := parseFormID(c, "book_id")
	if !ok {
		ctrl.flashes.SetFlashError(c.Request, "Select a book to issue.")
		redirectAfterPost(c, "/issue-return")
		return
	}
	memberID, ok := parseFormID(c, "member_id")
	if !ok {
		ctrl.flashes.SetFlashError(c.Request, "Select a member to issue to.")
		redirectAfterPost(c, "/issue-return")
		return
	}

	var due *time.Time
	if raw := c.PostForm("due_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			ctrl.flashes.SetFlashError(c.Request, "Due date must be YYYY-MM-DD.")
			redirectAfterPost(c, "/issue-return")
			return
		}
		due = &parsed
	}

	_, err := ctrl.transactions.Issue(bookID, memberID, due)
	switch {
	case errors.Is(err, transactions.ErrAlreadyIssued):
		ctrl.flashes.SetFlashError(c.Request, "That book is already issued.")
	case err != nil:
		ctrl.flashes.SetFlashError(c.Request, "Could not issue the book: "+err.Error())
	default:
		ctrl.flashes.SetFlash(c.Request, "Book issued.")
	}
	redirectAfterPost(c, "/issue-return")
}

// Return closes an open loan.
func (ctrl *IssueReturnController) Return(c *gin.Context) {
	id, ok := parseFormID(c, "transaction_id")
	if !ok {
		ctrl.flashes.SetFlashError(c.Request, "Select a loan to return.")
		redirectAfterPost(c, "/issue-return")
		return
	}

	err := ctrl.transactions.MarkReturned(id)
	switch {
	case errors.Is(err, transactions.ErrNotOpen):
		ctrl.flashes.SetFlashError(c.Request, "That loan is already returned.")
	case err != nil:
		ctrl.flashes.SetFlashError(c.Request, "Could not return the book: "+err.Error())
	default:
		ctrl.flashes.SetFlash(c.Request, "Book returned.")
	}
	redirectAfterPost(c, "/issue-return")
}
