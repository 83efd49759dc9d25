package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kenlibrary/internal/database/locations"
	"kenlibrary/internal/entities"
)

type LocationsController struct {
	locations *locations.Repository
	flashes   flashStore
}

func NewLocationsController(l *locations.Repository, flashes flashStore) *LocationsController {
	if flashes == nil {
		flashes = noopFlash{}
	}
	return &LocationsController{locations: l, flashes: flashes}
}

func (ctrl *LocationsController) Page(c *gin.Context) {
	allLocations, err := ctrl.locations.GetAll()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading locations: %s", err.Error())
		return
	}

	renderPage(c, ctrl.flashes, "locations", gin.H{
		"Active":    "locations",
		"Locations": allLocations,
	})
}

// Create adds a location. Re-adding an existing name is reported as
// success without creating a duplicate.
func (ctrl *LocationsController) Create(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		ctrl.flashes.SetFlashError(c.Request, "Name is required.")
		redirectAfterPost(c, "/locations")
		return
	}

	location := entities.Location{
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	if _, err := ctrl.locations.Create(&location); err != nil {
		ctrl.flashes.SetFlashError(c.Request, "Could not add the location: "+err.Error())
	} else {
		ctrl.flashes.SetFlash(c.Request, "Location saved.")
	}
	redirectAfterPost(c, "/locations")
}
