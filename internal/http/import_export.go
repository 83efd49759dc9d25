package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/exporters"
	"kenlibrary/internal/importers"
	"kenlibrary/internal/scheduler"
)

type ImportExportController struct {
	db            *database.Database
	books         *books.Repository
	members       *members.Repository
	locations     *locations.Repository
	backups       *scheduler.BackupScheduler
	seedLocations int
	flashes       flashStore
}

func NewImportExportController(db *database.Database, b *books.Repository, m *members.Repository, l *locations.Repository, backups *scheduler.BackupScheduler, seedLocations int, flashes flashStore) *ImportExportController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &ImportExportController{
		db:            db,
		books:         b,
		members:       m,
		locations:     l,
		backups:       backups,
		seedLocations: seedLocations,
		flashes:       flashes,
	}
}

// Page renders the import/export screen with row counts per table and the
// backup scheduler status.
func (ctrl *ImportExportController) Page(c *gin.Context) {
	bookCount, err := ctrl.books.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error counting books: %s", err.Error())
		return
	}
	memberCount, err := ctrl.members.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error counting members: %s", err.Error())
		return
	}
	locationCount, err := ctrl.locations.Count()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error counting locations: %s", err.Error())
		return
	}

	data := gin.H{
		"Active":        "import-export",
		"BookCount":     bookCount,
		"MemberCount":   memberCount,
		"LocationCount": locationCount,
	}
	if ctrl.backups != nil && ctrl.backups.IsRunning() {
		data["NextBackup"] = ctrl.backups.NextRunTime()
	}
	renderPage(c, ctrl.flashes, "import-export", data)
}

// Repair re-runs schema initialization and default location seeding.
// Existing rows are untouched; colliding non-table objects are dropped
// and recreated as tables.
func (ctrl *ImportExportController) Repair(c *gin.Context) {
	if err := ctrl.db.EnsureSchema(); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Schema repair failed: "+err.Error())
		redirectAfterPost(c, "/import-export")
		return
	}
	if err := ctrl.db.SeedDefaultLocations(ctrl.seedLocations); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Location seeding failed: "+err.Error())
		redirectAfterPost(c, "/import-export")
		return
	}
	ctrl.flashes.SetFlash(c.Request, "Database schema verified and defaults seeded.")
	redirectAfterPost(c, "/import-export")
}

// BackupNow triggers an immediate CSV snapshot.
func (ctrl *ImportExportController) BackupNow(c *gin.Context) {
	if ctrl.backups == nil {
		ctrl.flashes.SetFlashError(c.Request, "Backups are not enabled.")
		redirectAfterPost(c, "/import-export")
		return
	}
	if err := ctrl.backups.RunNow(); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Backup failed: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Backup written.")
	}
	redirectAfterPost(c, "/import-export")
}

// --- CSV import ---

func (ctrl *ImportExportController) ImportBooks(c *gin.Context) {
	ctrl.importCSV(c, importers.Books, func(rows []importers.Row) (int64, error) {
		return ctrl.books.ImportRows(importers.BookRows(rows))
	})
}

func (ctrl *ImportExportController) ImportMembers(c *gin.Context) {
	ctrl.importCSV(c, importers.Members, func(rows []importers.Row) (int64, error) {
		return ctrl.members.ImportRows(importers.MemberRows(rows))
	})
}

func (ctrl *ImportExportController) ImportLocations(c *gin.Context) {
	ctrl.importCSV(c, importers.Locations, func(rows []importers.Row) (int64, error) {
		return ctrl.locations.ImportRows(importers.LocationRows(rows))
	})
}

// importCSV handles one multipart CSV upload end to end: parse, validate
// columns, bulk insert, and report counts through a flash message.
func (ctrl *ImportExportController) importCSV(c *gin.Context, schema importers.Schema, insert func([]importers.Row) (int64, error)) {
	file, header, err := c.Request.FormFile("csv_file")
	if err != nil {
		ctrl.flashes.SetFlashError(c.Request, "No CSV file provided.")
		redirectAfterPost(c, "/import-export")
		return
	}
	defer file.Close()

	result, err := importers.Parse(file, schema)
	if err != nil {
		var missing *importers.MissingColumnsError
		if errors.As(err, &missing) {
			ctrl.flashes.SetFlashError(c.Request, fmt.Sprintf(
				"%s: missing required columns: %s.",
				header.Filename, strings.Join(missing.Columns, ", ")))
		} else {
			ctrl.flashes.SetFlashError(c.Request, "Could not parse "+header.Filename+": "+err.Error())
		}
		redirectAfterPost(c, "/import-export")
		return
	}

	inserted, err := insert(result.Rows)
	if err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Import failed: "+err.Error())
		redirectAfterPost(c, "/import-export")
		return
	}

	msg := fmt.Sprintf("Imported %d of %d %s rows", inserted, len(result.Rows), schema.Entity)
	if skipped := int64(len(result.Rows)) - inserted; skipped > 0 {
		msg += fmt.Sprintf(" (%d already present)", skipped)
	}
	if n := len(result.LineErrors); n > 0 {
		msg += fmt.Sprintf("; %d malformed lines skipped", n)
	}
	ctrl.flashes.SetFlash(c.Request, msg+".")
	redirectAfterPost(c, "/import-export")
}

// --- CSV export ---

func (ctrl *ImportExportController) ExportBooks(c *gin.Context) {
	rows, err := ctrl.books.GetAll()
	if err != nil {
		respondInternalError(c, err, "export books")
		return
	}
	setCSVHeaders(c, "books.csv")
	if err := exporters.WriteBooks(c.Writer, rows); err != nil {
		respondInternalError(c, err, "export books")
	}
}

func (ctrl *ImportExportController) ExportMembers(c *gin.Context) {
	rows, err := ctrl.members.GetAll()
	if err != nil {
		respondInternalError(c, err, "export members")
		return
	}
	setCSVHeaders(c, "members.csv")
	if err := exporters.WriteMembers(c.Writer, rows); err != nil {
		respondInternalError(c, err, "export members")
	}
}

func (ctrl *ImportExportController) ExportLocations(c *gin.Context) {
	rows, err := ctrl.locations.GetAll()
	if err != nil {
		respondInternalError(c, err, "export locations")
		return
	}
	setCSVHeaders(c, "locations.csv")
	if err := exporters.WriteLocations(c.Writer, rows); err != nil {
		respondInternalError(c, err, "export locations")
	}
}

func setCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
}
