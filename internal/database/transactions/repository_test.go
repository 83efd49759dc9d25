package transactions

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kenlibrary/internal/database"
	"kenlibrary/internal/entities"
)

func setupTestDB(t *testing.T, singleCopy bool) (*Repository, *database.Database, func()) {
	t.Helper()
	dbPath := "./test_transactions_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath, 0)
	require.NoError(t, err)

	repo := NewRepository(db.DB, singleCopy)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, db, cleanup
}

func seedBookAndMember(t *testing.T, db *database.Database) (uint, uint) {
	t.Helper()
	book := entities.Book{Title: "Dune", Author: "Herbert"}
	require.NoError(t, db.DB.Create(&book).Error)
	member := entities.Member{Name: "Ada"}
	require.NoError(t, db.DB.Create(&member).Error)
	return book.ID, member.ID
}

func TestRepository_Issue(t *testing.T) {
	t.Run("creates an open transaction dated today", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		transaction, err := repo.Issue(bookID, memberID, nil)

		require.NoError(t, err)
		assert.NotZero(t, transaction.ID)
		assert.Nil(t, transaction.DueDate)
		assert.Nil(t, transaction.ReturnDate)
		assert.Equal(t, today(), transaction.IssueDate)
	})

	t.Run("stores the optional due date", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		due := today().AddDate(0, 0, 14)
		transaction, err := repo.Issue(bookID, memberID, &due)

		require.NoError(t, err)
		require.NotNil(t, transaction.DueDate)
		assert.Equal(t, due, *transaction.DueDate)
	})

	t.Run("fails for unknown book or member", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		_, err := repo.Issue(9999, memberID, nil)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		_, err = repo.Issue(bookID, 9999, nil)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("allows multiple open transactions per book by default", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)
		other := entities.Member{Name: "Bob"}
		require.NoError(t, db.DB.Create(&other).Error)

		_, err := repo.Issue(bookID, memberID, nil)
		require.NoError(t, err)
		_, err = repo.Issue(bookID, other.ID, nil)
		require.NoError(t, err)

		open, err := repo.CountOpen()
		require.NoError(t, err)
		assert.Equal(t, int64(2), open)
	})

	t.Run("rejects a second open transaction in single-copy mode", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, true)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		_, err := repo.Issue(bookID, memberID, nil)
		require.NoError(t, err)

		_, err = repo.Issue(bookID, memberID, nil)
		assert.ErrorIs(t, err, ErrAlreadyIssued)
	})

	t.Run("single-copy mode allows reissuing after return", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, true)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		first, err := repo.Issue(bookID, memberID, nil)
		require.NoError(t, err)
		require.NoError(t, repo.MarkReturned(first.ID))

		_, err = repo.Issue(bookID, memberID, nil)
		assert.NoError(t, err)
	})
}

func TestRepository_MarkReturned(t *testing.T) {
	t.Run("sets the return date once", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		transaction, err := repo.Issue(bookID, memberID, nil)
		require.NoError(t, err)

		require.NoError(t, repo.MarkReturned(transaction.ID))

		returned, err := repo.GetByID(transaction.ID)
		require.NoError(t, err)
		require.NotNil(t, returned.ReturnDate)
		assert.Equal(t, today(), *returned.ReturnDate)
	})

	t.Run("does not revert an already returned transaction", func(t *testing.T) {
		repo, db, cleanup := setupTestDB(t, false)
		defer cleanup()
		bookID, memberID := seedBookAndMember(t, db)

		transaction, err := repo.Issue(bookID, memberID, nil)
		require.NoError(t, err)
		require.NoError(t, repo.MarkReturned(transaction.ID))

		before, err := repo.GetByID(transaction.ID)
		require.NoError(t, err)

		err = repo.MarkReturned(transaction.ID)
		assert.ErrorIs(t, err, ErrNotOpen)

		after, err := repo.GetByID(transaction.ID)
		require.NoError(t, err)
		assert.Equal(t, *before.ReturnDate, *after.ReturnDate)
	})

	t.Run("fails for an unknown transaction", func(t *testing.T) {
		repo, _, cleanup := setupTestDB(t, false)
		defer cleanup()

		err := repo.MarkReturned(4242)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRepository_OpenIssues(t *testing.T) {
	repo, db, cleanup := setupTestDB(t, false)
	defer cleanup()
	bookID, memberID := seedBookAndMember(t, db)

	first, err := repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	second, err := repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkReturned(first.ID))

	open, err := repo.OpenIssues()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)
	assert.Equal(t, "Dune", open[0].Title)
	assert.Equal(t, "Ada", open[0].MemberName)
	assert.Nil(t, open[0].DueDate)
}

func TestRepository_History(t *testing.T) {
	repo, db, cleanup := setupTestDB(t, false)
	defer cleanup()
	bookID, memberID := seedBookAndMember(t, db)

	first, err := repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	second, err := repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkReturned(first.ID))

	history, err := repo.History(200)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first
	assert.Equal(t, second.ID, history[0].ID)
	assert.Nil(t, history[0].ReturnDate)
	assert.Equal(t, first.ID, history[1].ID)
	assert.NotNil(t, history[1].ReturnDate)

	limited, err := repo.History(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_Counts(t *testing.T) {
	repo, db, cleanup := setupTestDB(t, false)
	defer cleanup()
	bookID, memberID := seedBookAndMember(t, db)

	first, err := repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	_, err = repo.Issue(bookID, memberID, nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkReturned(first.ID))

	open, err := repo.CountOpen()
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)

	total, err := repo.CountTotal()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestToday(t *testing.T) {
	d := today()
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 0, d.Minute())
	assert.Equal(t, time.Now().Day(), d.Day())
}
