package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenlibrary/internal/entities"
)

func issueReturnRouter(repos *testRepos, flashes flashStore) *gin.Engine {
	controller := NewIssueReturnController(repos.books, repos.members, repos.transactions, 200, flashes)
	router := gin.New()
	router.POST("/issue-return/issue", controller.Issue)
	router.POST("/issue-return/return", controller.Return)
	return router
}

func TestIssueReturnController_Issue(t *testing.T) {
	t.Run("issues a book and redirects", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		book := entities.Book{Title: "Dune", Author: "Frank Herbert"}
		require.NoError(t, repos.books.Create(&book))
		member := entities.Member{Name: "Ada"}
		require.NoError(t, repos.members.Create(&member))

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/issue", "book_id=1&member_id=1")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/issue-return", w.Header().Get("Location"))
		assert.Equal(t, []string{"Book issued."}, flashes.messages)

		open, err := repos.transactions.OpenIssues()
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, "Dune", open[0].Title)
		assert.Nil(t, open[0].DueDate)
	})

	t.Run("stores a parsed due date", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		require.NoError(t, repos.books.Create(&entities.Book{Title: "Dune"}))
		require.NoError(t, repos.members.Create(&entities.Member{Name: "Ada"}))

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/issue", "book_id=1&member_id=1&due_date=2026-09-14")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		open, err := repos.transactions.OpenIssues()
		require.NoError(t, err)
		require.Len(t, open, 1)
		require.NotNil(t, open[0].DueDate)
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.Local), *open[0].DueDate)
	})

	t.Run("rejects a malformed due date", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		require.NoError(t, repos.books.Create(&entities.Book{Title: "Dune"}))
		require.NoError(t, repos.members.Create(&entities.Member{Name: "Ada"}))

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/issue", "book_id=1&member_id=1&due_date=14/09/2026")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.NotEmpty(t, flashes.errors)

		count, err := repos.transactions.CountTotal()
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("reports an error for an unknown book", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		require.NoError(t, repos.members.Create(&entities.Member{Name: "Ada"}))

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/issue", "book_id=99&member_id=1")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Empty(t, flashes.messages)
		assert.NotEmpty(t, flashes.errors)
	})

	t.Run("reports an error when nothing is selected", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/issue", "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"Select a book to issue."}, flashes.errors)
	})
}

func TestIssueReturnController_Return(t *testing.T) {
	t.Run("closes an open loan", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		require.NoError(t, repos.books.Create(&entities.Book{Title: "Dune"}))
		require.NoError(t, repos.members.Create(&entities.Member{Name: "Ada"}))
		tx, err := repos.transactions.Issue(1, 1, nil)
		require.NoError(t, err)

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/return", "transaction_id=1")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"Book returned."}, flashes.messages)

		reloaded, err := repos.transactions.GetByID(tx.ID)
		require.NoError(t, err)
		assert.NotNil(t, reloaded.ReturnDate)
	})

	t.Run("reports an already returned loan", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		require.NoError(t, repos.books.Create(&entities.Book{Title: "Dune"}))
		require.NoError(t, repos.members.Create(&entities.Member{Name: "Ada"}))
		_, err := repos.transactions.Issue(1, 1, nil)
		require.NoError(t, err)
		require.NoError(t, repos.transactions.MarkReturned(1))

		w := postForm(issueReturnRouter(repos, flashes), "/issue-return/return", "transaction_id=1")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"That loan is already returned."}, flashes.errors)
	})
}
