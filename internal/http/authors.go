package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookfolio/bookfolio/internal/entities"
)

// AuthorStore defines database operations for author management.
type AuthorStore interface {
	Create(author *entities.Author) error
	GetByID(id uint) (*entities.Author, error)
	List(query string, limit, offset int) ([]entities.Author, int64, error)
	Update(author *entities.Author) error
	Delete(id uint) error
	EmailTaken(email string, excludeID uint) (bool, error)
}

// AuthorBookLister lists books belonging to an author.
type AuthorBookLister interface {
	ListByAuthor(authorID uint) ([]entities.Book, error)
	CountForAuthor(authorID uint) (int64, error)
}

// MutationRecorder records catalog mutations in the audit trail.
type MutationRecorder interface {
	LogCreate(entityType string, entityID uint, description string)
	LogUpdate(entityType string, entityID uint, description string)
	LogDelete(entityType string, entityID uint, description string, cascadedBooks int64)
}

type AuthorsController struct {
	store   AuthorStore
	books   AuthorBookLister
	auditor MutationRecorder // may be nil
}

func NewAuthorsController(store AuthorStore, books AuthorBookLister, auditor MutationRecorder) *AuthorsController {
	return &AuthorsController{store: store, books: books, auditor: auditor}
}

type authorRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Bio   string `json:"bio"`
}

// ListAuthors returns a paginated author listing.
// GET /api/authors?q=&limit=&offset=
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	limit, offset := parsePagination(c)

	authors, total, err := ac.store.List(c.Query("q"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	respondPaginated(c, authors, total, limit, offset)
}

// GetAuthor returns a single author.
// GET /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// CreateAuthor creates a new author.
// POST /api/authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and a valid email are required")
		return
	}

	taken, err := ac.store.EmailTaken(req.Email, 0)
	if err != nil {
		respondInternalError(c, err, "check author email")
		return
	}
	if taken {
		respondConflict(c, "an author with this email already exists")
		return
	}

	author := &entities.Author{
		Name:  req.Name,
		Email: req.Email,
		Bio:   req.Bio,
	}
	if err := ac.store.Create(author); err != nil {
		respondInternalError(c, err, "create author")
		return
	}

	if ac.auditor != nil {
		ac.auditor.LogCreate("author", author.ID, fmt.Sprintf("created author %q", author.Name))
	}

	respondCreated(c, author)
}

// UpdateAuthor updates an existing author.
// PUT /api/authors/:id
func (ac *AuthorsController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and a valid email are required")
		return
	}

	author, err := ac.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}

	taken, err := ac.store.EmailTaken(req.Email, id)
	if err != nil {
		respondInternalError(c, err, "check author email")
		return
	}
	if taken {
		respondConflict(c, "an author with this email already exists")
		return
	}

	author.Name = req.Name
	author.Email = req.Email
	author.Bio = req.Bio
	if err := ac.store.Update(author); err != nil {
		respondInternalError(c, err, "update author")
		return
	}

	if ac.auditor != nil {
		ac.auditor.LogUpdate("author", author.ID, fmt.Sprintf("updated author %q", author.Name))
	}

	c.JSON(http.StatusOK, author)
}

// DeleteAuthor deletes an author and, via cascade, all of their books.
// DELETE /api/authors/:id
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "author")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get author")
		return
	}

	// Count before deleting; the cascade takes the books with the author
	bookCount, err := ac.books.CountForAuthor(id)
	if err != nil {
		respondInternalError(c, err, "count author books")
		return
	}

	if err := ac.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete author")
		return
	}

	if ac.auditor != nil {
		ac.auditor.LogDelete("author", id, fmt.Sprintf("deleted author %q", author.Name), bookCount)
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "author deleted",
		Data:    gin.H{"cascaded_books": bookCount},
	})
}

// ListAuthorBooks returns every book belonging to an author.
// GET /api/authors/:id/books
func (ac *AuthorsController) ListAuthorBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ac.store.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	books, err := ac.books.ListByAuthor(id)
	if err != nil {
		respondInternalError(c, err, "list author books")
		return
	}

	c.JSON(http.StatusOK, books)
}
