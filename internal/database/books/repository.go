// Package books provides database operations for book management.
package books

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bookfolio/bookfolio/internal/entities"
)

// Filter narrows a book listing. Zero values mean "no constraint".
type Filter struct {
	AuthorID      uint
	TitleQuery    string // case-insensitive substring match
	PublishedFrom int    // earliest publication year, inclusive
	PublishedTo   int    // latest publication year, inclusive
	Limit         int
	Offset        int
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book. The author must exist: the foreign key
// constraint rejects dangling author references.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetByID retrieves a book with its author preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns books matching the filter, ordered by publication date then
// title, with the total match count for pagination.
func (r *Repository) List(filter Filter) ([]entities.Book, int64, error) {
	var books []entities.Book
	var total int64

	q := r.db.Model(&entities.Book{})
	if filter.AuthorID > 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.TitleQuery != "" {
		q = q.Where("LOWER(title) LIKE LOWER(?)", "%"+filter.TitleQuery+"%")
	}
	if filter.PublishedFrom > 0 {
		q = q.Where("published_on >= ?", yearStart(filter.PublishedFrom))
	}
	if filter.PublishedTo > 0 {
		q = q.Where("published_on < ?", yearStart(filter.PublishedTo+1))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	err := q.Preload("Author").
		Order("published_on ASC, title ASC").
		Limit(limit).Offset(offset).
		Find(&books).Error
	return books, total, err
}

// ListByAuthor returns every book belonging to an author, oldest first.
func (r *Repository) ListByAuthor(authorID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("author_id = ?", authorID).
		Order("published_on ASC, title ASC").
		Find(&books).Error
	return books, err
}

// GetByTitleForAuthor retrieves a book by exact title within one author's
// catalog. Used by the importer for deduplication.
func (r *Repository) GetByTitleForAuthor(title string, authorID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ? AND author_id = ?", title, authorID).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update persists changes to an existing book.
func (r *Repository) Update(book *entities.Book) error {
	return r.db.Save(book).Error
}

// Delete removes a book.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountForAuthor returns the number of books an author has.
func (r *Repository) CountForAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// yearStart returns January 1st of the given year as an ISO date. sqlite
// compares date columns lexicographically, which is safe for ISO dates.
func yearStart(year int) string {
	return fmt.Sprintf("%04d-01-01", year)
}
