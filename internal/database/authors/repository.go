// Package authors provides database operations for author management.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.GetByEmail("jane@example.com")
package authors

import (
	"strings"

	"gorm.io/gorm"

	"github.com/bookfolio/bookfolio/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new author. Emails are stored lowercased, so the unique
// index rejects duplicates regardless of the case a caller supplied.
func (r *Repository) Create(author *entities.Author) error {
	author.Email = normalizeEmail(author.Email)
	return r.db.Create(author).Error
}

// GetByID retrieves an author by ID.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetByEmail retrieves an author by email, case-insensitively.
func (r *Repository) GetByEmail(email string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Where("email = ?", normalizeEmail(email)).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// List returns authors ordered by name, optionally filtered by a
// case-insensitive substring match on name or email.
func (r *Repository) List(query string, limit, offset int) ([]entities.Author, int64, error) {
	var authors []entities.Author
	var total int64

	q := r.db.Model(&entities.Author{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&authors).Error
	return authors, total, err
}

// Update persists changes to an existing author.
func (r *Repository) Update(author *entities.Author) error {
	author.Email = normalizeEmail(author.Email)
	return r.db.Save(author).Error
}

// Delete removes an author. The ON DELETE CASCADE constraint removes all
// of the author's books in the same statement.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Author{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EmailTaken reports whether another author already uses the given email.
// excludeID skips the author being updated.
func (r *Repository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&entities.Author{}).Where("email = ?", normalizeEmail(email))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// normalizeEmail lowercases and trims an email so that HTTP requests and
// catalog imports agree on author identity.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
