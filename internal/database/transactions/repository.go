// Package transactions implements the issue/return workflow. A transaction is
// OPEN while its return date is null and becomes RETURNED exactly once, by an
// explicit user action targeting its id.
package transactions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"kenlibrary/internal/entities"
)

var (
	// ErrAlreadyIssued is returned by Issue when single-copy enforcement is
	// enabled and the book already has an open transaction.
	ErrAlreadyIssued = errors.New("book already has an open transaction")

	// ErrNotOpen is returned by MarkReturned for a transaction that has
	// already been returned.
	ErrNotOpen = errors.New("transaction is not open")
)

// OpenIssue is one row of the open-issues table: an open transaction joined
// with its book and member.
type OpenIssue struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	MemberName string     `json:"member_name"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// HistoryEntry is one row of the issue/return history table.
type HistoryEntry struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	MemberName string     `json:"member_name"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Repository handles the transactions table. When singleCopy is true, a book
// can have at most one open transaction at a time; when false (the default),
// the same book may be issued to several members simultaneously.
type Repository struct {
	db         *gorm.DB
	singleCopy bool
}

// NewRepository creates a new transactions repository.
func NewRepository(db *gorm.DB, singleCopy bool) *Repository {
	return &Repository{db: db, singleCopy: singleCopy}
}

// Issue creates a new open transaction for the book/member pair. The issue
// date is today; due is optional.
func (r *Repository) Issue(bookID, memberID uint, due *time.Time) (*entities.LoanTransaction, error) {
	var created entities.LoanTransaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return err
		}
		var member entities.Member
		if err := tx.First(&member, memberID).Error; err != nil {
			return err
		}

		if r.singleCopy {
			var open int64
			err := tx.Model(&entities.LoanTransaction{}).
				Where("book_id = ? AND return_date IS NULL", bookID).
				Count(&open).Error
			if err != nil {
				return err
			}
			if open > 0 {
				return ErrAlreadyIssued
			}
		}

		created = entities.LoanTransaction{
			BookID:    bookID,
			MemberID:  memberID,
			IssueDate: today(),
			DueDate:   due,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// MarkReturned sets the return date of an open transaction to today. A
// transaction that was already returned keeps its original return date and
// the call fails with ErrNotOpen.
func (r *Repository) MarkReturned(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var transaction entities.LoanTransaction
		if err := tx.First(&transaction, id).Error; err != nil {
			return err
		}
		if transaction.ReturnDate != nil {
			return ErrNotOpen
		}

		returnDate := today()
		return tx.Model(&transaction).Update("return_date", &returnDate).Error
	})
}

// GetByID retrieves a transaction by ID.
func (r *Repository) GetByID(id uint) (*entities.LoanTransaction, error) {
	var transaction entities.LoanTransaction
	if err := r.db.First(&transaction, id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

// OpenIssues returns all open transactions joined with book titles and member
// names, most recently issued first.
func (r *Repository) OpenIssues() ([]OpenIssue, error) {
	var issues []OpenIssue
	err := r.db.Raw(`
		SELECT t.id,
		       b.title       AS title,
		       m.name        AS member_name,
		       t.issue_date  AS issue_date,
		       t.due_date    AS due_date
		FROM transactions t
		JOIN books b   ON b.id = t.book_id
		JOIN members m ON m.id = t.member_id
		WHERE t.return_date IS NULL
		ORDER BY t.issue_date DESC, t.id DESC
	`).Scan(&issues).Error
	return issues, err
}

// History returns the most recent transactions (open and returned), newest
// first, capped at limit.
func (r *Repository) History(limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.Raw(`
		SELECT t.id,
		       b.title        AS title,
		       m.name         AS member_name,
		       t.issue_date   AS issue_date,
		       t.due_date     AS due_date,
		       t.return_date  AS return_date
		FROM transactions t
		JOIN books b   ON b.id = t.book_id
		JOIN members m ON m.id = t.member_id
		ORDER BY t.id DESC
		LIMIT ?
	`, limit).Scan(&entries).Error
	return entries, err
}

// CountOpen returns the number of currently open transactions.
func (r *Repository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&entities.LoanTransaction{}).Where("return_date IS NULL").Count(&count).Error
	return count, err
}

// CountTotal returns the number of transactions ever recorded.
func (r *Repository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&entities.LoanTransaction{}).Count(&count).Error
	return count, err
}

// today returns the current day truncated to midnight local time. Transaction
// dates are calendar days, not instants.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
