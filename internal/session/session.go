// Package session wires cookie sessions backed by the application's
// SQLite database. Sessions carry flash messages shown after form
// submissions; there is no user login.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session data keys
const (
	keyFlash      = "flash"
	keyFlashError = "flash_error"
)

// Manager wraps scs.SessionManager with flash-message helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, lifetime time.Duration, secureCookies bool) (*Manager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// SetFlash stores a one-shot success message shown on the next page load.
func (m *Manager) SetFlash(r *http.Request, msg string) {
	m.Put(r.Context(), keyFlash, msg)
}

// SetFlashError stores a one-shot error message shown on the next page load.
func (m *Manager) SetFlashError(r *http.Request, msg string) {
	m.Put(r.Context(), keyFlashError, msg)
}

// PopFlash retrieves and clears the pending success message.
func (m *Manager) PopFlash(r *http.Request) string {
	return m.PopString(r.Context(), keyFlash)
}

// PopFlashError retrieves and clears the pending error message.
func (m *Manager) PopFlashError(r *http.Request) string {
	return m.PopString(r.Context(), keyFlashError)
}
