package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookfolio/bookfolio/internal/importers"
	"github.com/bookfolio/bookfolio/internal/tasks"
)

// maxCatalogUploadBytes caps catalog uploads; the CSV travels inside the
// task payload, so unbounded files would bloat the task database.
const maxCatalogUploadBytes = 10 << 20 // 10 MiB

// CatalogImporter applies parsed catalog rows to the database.
type CatalogImporter interface {
	Import(rows []importers.CatalogRow) importers.Result
}

// ImportReporter records the outcome of an import run.
type ImportReporter interface {
	LogImport(description string, authorsCreated, booksCreated, skipped int, err error)
}

type ImportsController struct {
	importer   CatalogImporter
	taskClient *tasks.Client   // may be nil; imports then run inline
	auditor    ImportReporter  // may be nil
}

func NewImportsController(importer CatalogImporter, taskClient *tasks.Client, auditor ImportReporter) *ImportsController {
	return &ImportsController{importer: importer, taskClient: taskClient, auditor: auditor}
}

// ImportCatalog accepts a catalog CSV upload. With a task queue available
// the import runs in the background and the endpoint returns 202; without
// one it runs inline and returns the result directly.
// POST /api/import/catalog (multipart field "file")
func (ic *ImportsController) ImportCatalog(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "a catalog CSV upload named 'file' is required")
		return
	}
	if fileHeader.Size > maxCatalogUploadBytes {
		respondBadRequest(c, "catalog file exceeds the 10 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open catalog upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCatalogUploadBytes+1))
	if err != nil {
		respondInternalError(c, err, "read catalog upload")
		return
	}
	if int64(len(data)) > maxCatalogUploadBytes {
		respondBadRequest(c, "catalog file exceeds the 10 MiB limit")
		return
	}

	if ic.taskClient != nil {
		task := tasks.ImportCatalogTask{
			Filename: fileHeader.Filename,
			CSV:      string(data),
		}
		ids, err := ic.taskClient.Add(task).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue catalog import")
			return
		}
		respondAccepted(c, "catalog import queued", gin.H{"task_ids": ids})
		return
	}

	// No task queue: import inline
	rows, rowErrors, err := importers.ParseCatalogCSV(strings.NewReader(string(data)))
	if err != nil {
		respondBadRequest(c, "could not parse catalog CSV: "+err.Error())
		return
	}

	result := ic.importer.Import(rows)
	result.Errors = append(rowErrors, result.Errors...)

	if ic.auditor != nil {
		var runErr error
		if len(result.Errors) > 0 {
			runErr = fmt.Errorf("%d rows failed", len(result.Errors))
		}
		ic.auditor.LogImport("catalog import: "+fileHeader.Filename,
			result.AuthorsCreated, result.BooksCreated, result.Skipped, runErr)
	}

	c.JSON(http.StatusOK, result)
}
