package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
)

// formatDate renders dates in the tables; nil pointers show as a dash.
func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("2006-01-02")
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}

	var flashes flashStore = noopFlash{}
	if cfg.Sessions != nil {
		flashes = cfg.Sessions
	}

	// Define custom template functions
	funcMap := template.FuncMap{
		"formatDate": formatDate,
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}

	// Load HTML templates with custom functions
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.Static("/static", cfg.StaticPath)

	// Create controllers
	health := NewHealthController(cfg.Database, cfg.Version)
	api := NewAPIController(cfg.Database, cfg.Books)
	dashboard := NewDashboardController(cfg.Database, cfg.Books, flashes)
	issueReturn := NewIssueReturnController(cfg.Books, cfg.Members, cfg.Transactions, cfg.HistoryLimit, flashes)
	booksController := NewBooksController(cfg.Books, cfg.Locations, flashes)
	membersController := NewMembersController(cfg.Members, flashes)
	locationsController := NewLocationsController(cfg.Locations, flashes)
	importExport := NewImportExportController(cfg.Database, cfg.Books, cfg.Members, cfg.Locations, cfg.Backups, cfg.SeedLocations, flashes)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// JSON API endpoints
	router.GET("/api/stats", api.GetStats)
	router.GET("/api/books", api.GetAllBooks)

	// UI routes
	router.GET("/", dashboard.Page)

	router.GET("/issue-return", issueReturn.Page)
	router.POST("/issue-return/issue", issueReturn.Issue)
	router.POST("/issue-return/return", issueReturn.Return)

	router.GET("/books", booksController.Page)
	router.POST("/books", booksController.Create)
	router.POST("/books/delete", booksController.Delete)

	router.GET("/members", membersController.Page)
	router.POST("/members", membersController.Create)
	router.POST("/members/delete", membersController.Delete)

	router.GET("/locations", locationsController.Page)
	router.POST("/locations", locationsController.Create)

	// Import/export routes
	router.GET("/import-export", importExport.Page)
	router.POST("/import-export/repair", importExport.Repair)
	router.POST("/import-export/backup", importExport.BackupNow)
	router.POST("/import-export/books", importExport.ImportBooks)
	router.POST("/import-export/members", importExport.ImportMembers)
	router.POST("/import-export/locations", importExport.ImportLocations)
	router.GET("/export/books.csv", importExport.ExportBooks)
	router.GET("/export/members.csv", importExport.ExportMembers)
	router.GET("/export/locations.csv", importExport.ExportLocations)

	return router
}
