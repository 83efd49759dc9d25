package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenlibrary/internal/entities"
)

func importExportRouter(repos *testRepos, flashes flashStore) *gin.Engine {
	controller := NewImportExportController(repos.db, repos.books, repos.members, repos.locations, nil, 45, flashes)
	router := gin.New()
	router.POST("/import-export/repair", controller.Repair)
	router.POST("/import-export/books", controller.ImportBooks)
	router.POST("/import-export/members", controller.ImportMembers)
	router.POST("/import-export/locations", controller.ImportLocations)
	router.GET("/export/books.csv", controller.ExportBooks)
	router.GET("/export/members.csv", controller.ExportMembers)
	router.GET("/export/locations.csv", controller.ExportLocations)
	return router
}

func postCSV(router *gin.Engine, path, filename, contents string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("csv_file", filename)
	_, _ = part.Write([]byte(contents))
	writer.Close()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	return w
}

func TestImportExportController_ImportBooks(t *testing.T) {
	csvData := "title,author,genre,default_location\nDune,Frank Herbert,Sci-Fi,Compartment 1\nEmma,Jane Austen,Classic,Compartment 2\n"

	t.Run("imports well-formed rows", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		w := postCSV(importExportRouter(repos, flashes), "/import-export/books", "books.csv", csvData)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		require.Len(t, flashes.messages, 1)
		assert.Contains(t, flashes.messages[0], "Imported 2 of 2 books rows")

		count, err := repos.books.Count()
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})

	t.Run("importing the same file twice inserts nothing new", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}
		router := importExportRouter(repos, flashes)

		postCSV(router, "/import-export/books", "books.csv", csvData)
		postCSV(router, "/import-export/books", "books.csv", csvData)

		count, err := repos.books.Count()
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
		assert.Contains(t, flashes.messages[1], "already present")
	})

	t.Run("names missing required columns and inserts nothing", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		w := postCSV(importExportRouter(repos, flashes), "/import-export/books", "books.csv", "title,genre\nDune,Sci-Fi\n")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		require.Len(t, flashes.errors, 1)
		assert.Contains(t, flashes.errors[0], "missing required columns")
		assert.Contains(t, flashes.errors[0], "author")
		assert.Contains(t, flashes.errors[0], "default_location")

		count, err := repos.books.Count()
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("reports when no file is attached", func(t *testing.T) {
		repos := setupHTTPTestDB(t)
		flashes := &recordingFlash{}

		w := postForm(importExportRouter(repos, flashes), "/import-export/books", "")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, []string{"No CSV file provided."}, flashes.errors)
	})
}

func TestImportExportController_ImportMembers(t *testing.T) {
	repos := setupHTTPTestDB(t)
	flashes := &recordingFlash{}
	router := importExportRouter(repos, flashes)

	csvData := "name,phone,email\nAda,555-0100,ada@example.com\n"

	// Members have no natural key: the same file twice appends twice.
	postCSV(router, "/import-export/members", "members.csv", csvData)
	postCSV(router, "/import-export/members", "members.csv", csvData)

	count, err := repos.members.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestImportExportController_ImportLocations(t *testing.T) {
	repos := setupHTTPTestDB(t)
	flashes := &recordingFlash{}
	router := importExportRouter(repos, flashes)

	csvData := "name,description\nCompartment 1,First shelf\n"

	postCSV(router, "/import-export/locations", "locations.csv", csvData)
	postCSV(router, "/import-export/locations", "locations.csv", csvData)

	count, err := repos.locations.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestImportExportController_Export(t *testing.T) {
	repos := setupHTTPTestDB(t)
	flashes := &recordingFlash{}
	router := importExportRouter(repos, flashes)

	require.NoError(t, repos.books.Create(&entities.Book{Title: "Dune", Author: "Frank Herbert"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/export/books.csv", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "books.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "id,title,author,genre,default_location,tags,notes")
	assert.Contains(t, w.Body.String(), "Dune")
}

func TestImportExportController_Repair(t *testing.T) {
	repos := setupHTTPTestDB(t)
	flashes := &recordingFlash{}

	// Sabotage the schema: replace a required table with a view.
	require.NoError(t, repos.db.DB.Exec("DROP TABLE locations").Error)
	require.NoError(t, repos.db.DB.Exec("CREATE VIEW locations AS SELECT 1 AS id").Error)

	w := postForm(importExportRouter(repos, flashes), "/import-export/repair", "")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, flashes.errors)
	require.Len(t, flashes.messages, 1)

	// The view is gone, the table is back, and the defaults are seeded.
	count, err := repos.locations.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 45, count)
}
