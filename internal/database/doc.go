// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, catalog stats
//	├── authors/         # Author CRUD and search
//	├── books/           # Book CRUD and filtered listing
//	└── audit/           # Audit event log and retention
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./bookfolio.db")
//
//	// Create domain-specific repositories
//	authorsRepo := authors.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//
//	// Use repositories
//	author, err := authorsRepo.GetByID(123)
//	books, total, err := booksRepo.List(books.Filter{AuthorID: author.ID})
//
// Repositories surface gorm.ErrRecordNotFound unwrapped so callers can map
// it with errors.Is. The connection enables sqlite foreign key enforcement,
// which is what makes the authors -> books ON DELETE CASCADE real.
package database
