package http

import (
	"github.com/bookfolio/bookfolio/internal/database"
	"github.com/bookfolio/bookfolio/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Catalog stores
	AuthorStore AuthorStore
	BookStore   BookStore
	BookLister  AuthorBookLister

	// Catalog import
	Importer   CatalogImporter
	TaskClient *tasks.Client // nil disables background imports

	// Audit trail (all optional)
	Auditor     MutationRecorder
	ImportAudit ImportReporter
	AuditReader AuditEventReader

	// DemoMode blocks all catalog mutations when true
	DemoMode bool

	// Application info
	Version string
}
