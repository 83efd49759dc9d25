package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Parameter Parsing ---

// parseFormID extracts and validates an unsigned integer ID from a posted
// form field. Returns the parsed ID or 0, false when missing or malformed.
func parseFormID(c *gin.Context, field string) (uint, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// --- Form Feedback ---

// flashStore is the slice of the session manager the controllers need.
// Kept as an interface so handlers can be tested without a database-backed
// session store.
type flashStore interface {
	SetFlash(*http.Request, string)
	SetFlashError(*http.Request, string)
	PopFlash(*http.Request) string
	PopFlashError(*http.Request) string
}

// noopFlash discards flash messages. Used when no session manager is wired.
type noopFlash struct{}

func (noopFlash) SetFlash(*http.Request, string)      {}
func (noopFlash) SetFlashError(*http.Request, string) {}
func (noopFlash) PopFlash(*http.Request) string       { return "" }
func (noopFlash) PopFlashError(*http.Request) string  { return "" }

// renderPage renders an HTML page template with the values every page
// expects: pending flash messages and the CSRF field for forms.
func renderPage(c *gin.Context, flashes flashStore, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = flashes.PopFlash(c.Request)
	data["FlashError"] = flashes.PopFlashError(c.Request)
	data["CSRFField"] = CSRFTokenField(c)
	c.HTML(http.StatusOK, name, data)
}

// redirectAfterPost implements the post-redirect-get pattern for form
// submissions.
func redirectAfterPost(c *gin.Context, target string) {
	c.Redirect(http.StatusSeeOther, target)
}
