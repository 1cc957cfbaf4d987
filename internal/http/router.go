package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookfolio/bookfolio/internal/demo"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	authorsController := NewAuthorsController(cfg.AuthorStore, cfg.BookLister, cfg.Auditor)
	booksController := NewBooksController(cfg.BookStore, cfg.AuthorStore, cfg.Auditor)
	importsController := NewImportsController(cfg.Importer, cfg.TaskClient, cfg.ImportAudit)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	api.Use(demo.NewMiddleware(cfg.DemoMode).Handler())
	{
		api.GET("/authors", authorsController.ListAuthors)
		api.POST("/authors", authorsController.CreateAuthor)
		api.GET("/authors/:id", authorsController.GetAuthor)
		api.PUT("/authors/:id", authorsController.UpdateAuthor)
		api.DELETE("/authors/:id", authorsController.DeleteAuthor)
		api.GET("/authors/:id/books", authorsController.ListAuthorBooks)

		api.GET("/books", booksController.ListBooks)
		api.POST("/books", booksController.CreateBook)
		api.GET("/books/:id", booksController.GetBook)
		api.PUT("/books/:id", booksController.UpdateBook)
		api.DELETE("/books/:id", booksController.DeleteBook)

		api.POST("/import/catalog", importsController.ImportCatalog)

		if cfg.AuditReader != nil {
			auditController := NewAuditController(cfg.AuditReader)
			api.GET("/audit", auditController.ListEvents)
		}
	}

	return router
}
