package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/config"
	"kenlibrary/internal/database"
	"kenlibrary/internal/database/books"
	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/database/members"
	"kenlibrary/internal/database/transactions"
	http_controllers "kenlibrary/internal/http"
	"kenlibrary/internal/scheduler"
	"kenlibrary/internal/session"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the backup scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting library server v%s", version)

	// Initialize database, migrate the schema and seed default locations
	db, err := database.NewDatabase(cfg.Database.Path, cfg.Library.SeedLocations)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	bookRepo := books.NewRepository(db.DB)
	memberRepo := members.NewRepository(db.DB)
	locationRepo := locations.NewRepository(db.DB)
	transactionRepo := transactions.NewRepository(db.DB, cfg.Library.SingleCopy)
	if cfg.Library.SingleCopy {
		log.Printf("Single-copy mode: a book with an open loan cannot be issued again")
	}

	// Session store on the same SQLite database
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessions, err := session.NewManager(sqlDB, cfg.Session.Lifetime, cfg.Session.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	// Configured or generated CSRF secret
	var csrfSecret []byte
	if cfg.Session.Secret != "" {
		csrfSecret = session.DecodeSecret(cfg.Session.Secret)
	} else {
		csrfSecret, err = session.GenerateSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	// Optional CSV backup scheduler
	var backups *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		backups = scheduler.NewBackupScheduler(bookRepo, memberRepo, locationRepo, cfg.Backup.Schedule, cfg.Backup.Dir)
		if err := backups.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start backup scheduler: %v", err)
		}
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		Books:         bookRepo,
		Members:       memberRepo,
		Locations:     locationRepo,
		Transactions:  transactionRepo,
		Sessions:      sessions,
		Backups:       backups,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		HistoryLimit:  cfg.Library.HistoryLimit,
		SeedLocations: cfg.Library.SeedLocations,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if backups != nil {
			backups.Stop()
		}
	})
}
