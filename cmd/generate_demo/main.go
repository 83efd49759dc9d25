// Command generate_demo creates a demo database with a small public
// domain catalogue, a few members and some loan history.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/database/transactions"
	"kenlibrary/internal/entities"
)

const defaultDemoDatabasePath = "./demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath, 10)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	for i := range demoBooks {
		if err := bookRepo.Create(&demoBooks[i]); err != nil {
			log.Printf("Failed to save book %s: %v", demoBooks[i].Title, err)
			continue
		}
		log.Printf("Saved: %s by %s", demoBooks[i].Title, demoBooks[i].Author)
	}

	memberRepo := members.NewRepository(db.DB)
	for i := range demoMembers {
		if err := memberRepo.Create(&demoMembers[i]); err != nil {
			log.Printf("Failed to save member %s: %v", demoMembers[i].Name, err)
		}
	}

	// Some history: two returned loans and two still open
	loans := transactions.NewRepository(db.DB, false)
	issueAndReturn(loans, demoBooks[0].ID, demoMembers[0].ID)
	issueAndReturn(loans, demoBooks[2].ID, demoMembers[1].ID)
	due := time.Now().AddDate(0, 0, 14)
	if _, err := loans.Issue(demoBooks[1].ID, demoMembers[0].ID, &due); err != nil {
		log.Printf("Failed to issue demo loan: %v", err)
	}
	if _, err := loans.Issue(demoBooks[3].ID, demoMembers[2].ID, nil); err != nil {
		log.Printf("Failed to issue demo loan: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

func issueAndReturn(loans *transactions.Repository, bookID, memberID uint) {
	tx, err := loans.Issue(bookID, memberID, nil)
	if err != nil {
		log.Printf("Failed to issue demo loan: %v", err)
		return
	}
	if err := loans.MarkReturned(tx.ID); err != nil {
		log.Printf("Failed to return demo loan: %v", err)
	}
}

var demoBooks = []entities.Book{
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic", DefaultLocation: "Compartment 1"},
	{Title: "Moby-Dick", Author: "Herman Melville", Genre: "Classic", DefaultLocation: "Compartment 2"},
	{Title: "The Time Machine", Author: "H. G. Wells", Genre: "Science Fiction", DefaultLocation: "Compartment 3"},
	{Title: "Frankenstein", Author: "Mary Shelley", Genre: "Science Fiction", DefaultLocation: "Compartment 3"},
	{Title: "Meditations", Author: "Marcus Aurelius", Genre: "Philosophy", DefaultLocation: "Compartment 4"},
	{Title: "The Art of War", Author: "Sun Tzu", Genre: "Philosophy", DefaultLocation: "Compartment 4"},
	{Title: "Dracula", Author: "Bram Stoker", Genre: "", DefaultLocation: "Compartment 5"},
}

var demoMembers = []entities.Member{
	{Name: "Ada Lovelace", Phone: "555-0100", Email: "ada@example.com"},
	{Name: "Alan Turing", Phone: "555-0101", Email: "alan@example.com"},
	{Name: "Grace Hopper", Phone: "555-0102", Email: "grace@example.com"},
}
