package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the library store is usable: the
// database answers, all four tables exist as tables, and storage
// locations have been seeded.
type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db == nil {
		checks["database"] = "not configured"
	} else {
		status = h.runChecks(checks)
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) runChecks(checks map[string]string) string {
	status := "healthy"

	sqlDB, err := h.db.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		checks["database"] = "error: " + err.Error()
		// Nothing below can succeed without a connection.
		return "unhealthy"
	}
	checks["database"] = "ok"

	missing, err := h.db.MissingTables()
	switch {
	case err != nil:
		checks["schema"] = "error: " + err.Error()
		status = "unhealthy"
	case len(missing) > 0:
		checks["schema"] = "missing tables: " + strings.Join(missing, ", ")
		status = "unhealthy"
	default:
		checks["schema"] = "ok"
	}

	// Informational only: an empty locations table is odd but workable.
	if count, err := h.db.CountLocations(); err != nil {
		checks["locations"] = "error: " + err.Error()
	} else {
		checks["locations"] = fmt.Sprintf("%d seeded", count)
	}

	return status
}
