package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookfolio/bookfolio/internal/importers"
)

// CatalogImporter applies parsed catalog rows to the database.
type CatalogImporter interface {
	Import(rows []importers.CatalogRow) importers.Result
}

// ImportReporter records the outcome of an import run.
type ImportReporter interface {
	LogImport(description string, authorsCreated, booksCreated, skipped int, err error)
}

// ImportCatalogTask imports an uploaded catalog CSV in the background. The
// raw CSV travels with the task so a restart cannot lose the upload.
type ImportCatalogTask struct {
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

// Config returns the queue configuration for catalog import tasks.
func (t ImportCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_catalog",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportCatalogProcessor creates a processor function for ImportCatalogTask.
func ImportCatalogProcessor(importer CatalogImporter, reporter ImportReporter) backlite.QueueProcessor[ImportCatalogTask] {
	return func(ctx context.Context, task ImportCatalogTask) error {
		rows, rowErrors, err := importers.ParseCatalogCSV(strings.NewReader(task.CSV))
		if err != nil {
			if reporter != nil {
				reporter.LogImport("catalog import: "+task.Filename, 0, 0, 0, err)
			}
			return fmt.Errorf("parse catalog %s: %w", task.Filename, err)
		}

		result := importer.Import(rows)
		result.Errors = append(rowErrors, result.Errors...)

		log.Printf("[TASK] Imported catalog %s: %d authors, %d books, %d skipped, %d errors",
			task.Filename, result.AuthorsCreated, result.BooksCreated, result.Skipped, len(result.Errors))

		if reporter != nil {
			var runErr error
			if len(result.Errors) > 0 {
				runErr = fmt.Errorf("%d rows failed: %s", len(result.Errors), strings.Join(result.Errors, "; "))
			}
			reporter.LogImport("catalog import: "+task.Filename,
				result.AuthorsCreated, result.BooksCreated, result.Skipped, runErr)
		}

		return nil
	}
}

// NewImportCatalogQueue creates a backlite queue for catalog import tasks.
func NewImportCatalogQueue(importer CatalogImporter, reporter ImportReporter) backlite.Queue {
	return backlite.NewQueue(ImportCatalogProcessor(importer, reporter))
}
