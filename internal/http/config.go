package http

import (
	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/database/transactions"
	"kenlibrary/internal/scheduler"
	"kenlibrary/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database     *database.Database
	Books        *books.Repository
	Members      *members.Repository
	Locations    *locations.Repository
	Transactions *transactions.Repository

	// Sessions carry flash messages between form posts and page loads.
	Sessions *session.Manager

	// Optional backup scheduler, exposed on the import/export page.
	Backups *scheduler.BackupScheduler

	// UI paths
	TemplatesPath string
	StaticPath    string

	// CSRF protection for form posts
	CSRFSecret    []byte
	SecureCookies bool

	// Number of rows shown in the transaction history table
	HistoryLimit int

	// Number of default locations recreated by the repair action
	SeedLocations int

	// Application info
	Version string
}
