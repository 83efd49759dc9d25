package entities

import (
	"time"
)

// Book is a single title in the library. There is no notion of physical
// copies: a book row stands for the title itself, and issuing is tracked
// through LoanTransaction rows.
type Book struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Title           string `gorm:"index;size:512" json:"title"`
	Author          string `gorm:"index;size:256" json:"author"`
	Genre           string `gorm:"size:100" json:"genre,omitempty"`
	DefaultLocation string `gorm:"size:100" json:"default_location,omitempty"` // free text, nominally a Location name
	Tags            string `gorm:"size:512" json:"tags,omitempty"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`

	Transactions []LoanTransaction `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
}

type Member struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"index;size:256" json:"name"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`
	Email string `gorm:"size:255" json:"email,omitempty"`

	Transactions []LoanTransaction `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

// Location is a named storage slot. The name is unique; Book.DefaultLocation
// refers to it by name only, without a foreign key.
type Location struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100" json:"name"`
	Description string `gorm:"size:512" json:"description,omitempty"`
}

// LoanTransaction records one issue of a book to a member. A nil ReturnDate
// marks the transaction as open (the book is currently out).
type LoanTransaction struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index" json:"book_id"`
	MemberID   uint       `gorm:"index" json:"member_id"`
	IssueDate  time.Time  `json:"issue_date"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	Book   Book   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Member Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsOpen reports whether the book from this transaction is still out.
func (t LoanTransaction) IsOpen() bool {
	return t.ReturnDate == nil
}

func (Book) TableName() string {
	return "books"
}

func (Member) TableName() string {
	return "members"
}

func (Location) TableName() string {
	return "locations"
}

func (LoanTransaction) TableName() string {
	return "transactions"
}
