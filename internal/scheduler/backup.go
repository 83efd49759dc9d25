// Package scheduler runs periodic CSV snapshots of the catalogue so the
// single-file database always has plain-text copies next to it.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"kenlibrary/internal/exporters"
)

// BackupScheduler exports books, members and locations to timestamped
// CSV files on a cron schedule.
type BackupScheduler struct {
	books     exporters.BookSource
	members   exporters.MemberSource
	locations exporters.LocationSource

	schedule string
	dir      string

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	cancelFunc  context.CancelFunc
	watcherDone chan struct{}
}

// NewBackupScheduler creates a scheduler writing snapshots into dir.
func NewBackupScheduler(b exporters.BookSource, m exporters.MemberSource, l exporters.LocationSource, schedule, dir string) *BackupScheduler {
	return &BackupScheduler{
		books:     b,
		members:   m,
		locations: l,
		schedule:  schedule,
		dir:       dir,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateSchedule checks that a cron expression is parseable.
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// Start begins the scheduler.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	watcher := make(chan struct{})
	s.watcherDone = watcher

	s.cron.Start()
	s.isRunning = true

	log.Printf("Backup scheduler: started with schedule '%s', writing to %s", s.schedule, s.dir)

	go func() {
		defer close(watcher)
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler and waits for a running backup.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	// Release the context watcher started in Start so it does not leak
	// when Stop is called directly.
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Backup scheduler: stopped")
}

// RunNow triggers an immediate backup and returns its error.
func (s *BackupScheduler) RunNow() error {
	return s.runBackup()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next backup will occur.
func (s *BackupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *BackupScheduler) runBackup() error {
	start := time.Now()
	stamp := start.Format("2006-01-02_150405")
	outDir := filepath.Join(s.dir, stamp)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Printf("Backup: failed to create %s: %v", outDir, err)
		return err
	}

	steps := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"books.csv", func(w io.Writer) error {
			rows, err := s.books.GetAll()
			if err != nil {
				return err
			}
			return exporters.WriteBooks(w, rows)
		}},
		{"members.csv", func(w io.Writer) error {
			rows, err := s.members.GetAll()
			if err != nil {
				return err
			}
			return exporters.WriteMembers(w, rows)
		}},
		{"locations.csv", func(w io.Writer) error {
			rows, err := s.locations.GetAll()
			if err != nil {
				return err
			}
			return exporters.WriteLocations(w, rows)
		}},
	}

	for _, step := range steps {
		if err := s.writeFile(filepath.Join(outDir, step.name), step.write); err != nil {
			log.Printf("Backup: %s failed: %v", step.name, err)
			return err
		}
	}

	log.Printf("Backup: snapshot written to %s in %v", outDir, time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *BackupScheduler) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
