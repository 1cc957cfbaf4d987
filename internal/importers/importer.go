package importers

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bookfolio/bookfolio/internal/database/authors"
	"github.com/bookfolio/bookfolio/internal/database/books"
	"github.com/bookfolio/bookfolio/internal/entities"
)

// Result summarizes a catalog import run.
type Result struct {
	AuthorsCreated int      `json:"authors_created"`
	BooksCreated   int      `json:"books_created"`
	Skipped        int      `json:"skipped"` // books that already existed
	Errors         []string `json:"errors,omitempty"`
}

// Importer applies parsed catalog rows to the database.
type Importer struct {
	authors *authors.Repository
	books   *books.Repository
}

// NewImporter creates an importer backed by the given database connection.
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{
		authors: authors.NewRepository(db),
		books:   books.NewRepository(db),
	}
}

// Import inserts the rows, creating authors on first sight of their email
// and skipping books an author already has. Row failures are collected in
// the result rather than aborting the run.
func (i *Importer) Import(rows []CatalogRow) Result {
	var result Result

	// Authors first, so every book row can resolve its author ID
	authorIDs := make(map[string]uint)
	for _, email := range AuthorEmails(rows) {
		author, err := i.authors.GetByEmail(email)
		if err == nil {
			authorIDs[email] = author.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("lookup author %s: %v", email, err))
			continue
		}

		created := &entities.Author{
			Name:  nameForEmail(rows, email),
			Email: email,
		}
		if err := i.authors.Create(created); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("create author %s: %v", email, err))
			continue
		}
		authorIDs[email] = created.ID
		result.AuthorsCreated++
	}

	for _, row := range rows {
		authorID, ok := authorIDs[row.AuthorEmail]
		if !ok {
			// Author creation failed above; the row error is already recorded
			continue
		}

		_, err := i.books.GetByTitleForAuthor(row.Title, authorID)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			result.Errors = append(result.Errors, fmt.Sprintf("lookup book %q: %v", row.Title, err))
			continue
		}

		book := &entities.Book{
			AuthorID:    authorID,
			Title:       row.Title,
			ISBN:        row.ISBN,
			PublishedOn: row.PublishedOn,
		}
		if err := i.books.Create(book); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("create book %q: %v", row.Title, err))
			continue
		}
		result.BooksCreated++
	}

	return result
}

// nameForEmail returns the author name from the first row carrying the email.
func nameForEmail(rows []CatalogRow, email string) string {
	for _, row := range rows {
		if row.AuthorEmail == email {
			return row.AuthorName
		}
	}
	return ""
}
