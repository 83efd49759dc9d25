package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/entities"
)

func setupScheduler(t *testing.T) (*BackupScheduler, *database.Database, string) {
	t.Helper()

	dbPath := fmt.Sprintf("./test_%s.db", t.Name())
	db, err := database.NewDatabase(dbPath, 0)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	backupDir := t.TempDir()
	s := NewBackupScheduler(
		books.NewRepository(db.DB),
		members.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		"0 3 * * *",
		backupDir,
	)
	return s, db, backupDir
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("*/5 * * * *"))
	assert.Error(t, ValidateSchedule("not a schedule"))
	assert.Error(t, ValidateSchedule(""))
}

func TestRunNow_WritesSnapshot(t *testing.T) {
	s, db, backupDir := setupScheduler(t)

	require.NoError(t, db.DB.Create(&entities.Book{Title: "Dune", Author: "Frank Herbert"}).Error)
	require.NoError(t, db.DB.Create(&entities.Member{Name: "Ada"}).Error)
	require.NoError(t, db.DB.Create(&entities.Location{Name: "Compartment 1"}).Error)

	require.NoError(t, s.RunNow())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	snapshot := filepath.Join(backupDir, entries[0].Name())
	for _, name := range []string{"books.csv", "members.csv", "locations.csv"} {
		data, err := os.ReadFile(filepath.Join(snapshot, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	booksCSV, err := os.ReadFile(filepath.Join(snapshot, "books.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(booksCSV), "Dune")
}

func TestStartStop(t *testing.T) {
	s, _, _ := setupScheduler(t)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.NextRunTime())

	// Starting twice is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestStop_ReleasesContextWatcher(t *testing.T) {
	s, _, _ := setupScheduler(t)

	require.NoError(t, s.Start(context.Background()))
	done := s.watcherDone

	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("context watcher did not exit after Stop")
	}
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s, _, _ := setupScheduler(t)
	s.schedule = "bogus"

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}
