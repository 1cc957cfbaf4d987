package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookfolio/bookfolio/internal/database/books"
	"github.com/bookfolio/bookfolio/internal/entities"
)

// BookStore defines database operations for book management.
type BookStore interface {
	Create(book *entities.Book) error
	GetByID(id uint) (*entities.Book, error)
	List(filter books.Filter) ([]entities.Book, int64, error)
	Update(book *entities.Book) error
	Delete(id uint) error
}

// AuthorGetter checks that a book's author exists before writes.
type AuthorGetter interface {
	GetByID(id uint) (*entities.Author, error)
}

type BooksController struct {
	store   BookStore
	authors AuthorGetter
	auditor MutationRecorder // may be nil
}

func NewBooksController(store BookStore, authors AuthorGetter, auditor MutationRecorder) *BooksController {
	return &BooksController{store: store, authors: authors, auditor: auditor}
}

type bookRequest struct {
	Title       string `json:"title" binding:"required"`
	AuthorID    uint   `json:"author_id" binding:"required"`
	PublishedOn string `json:"published_on" binding:"required"` // ISO date, e.g. "1932-01-01"
	ISBN        string `json:"isbn"`
}

func (r bookRequest) publicationDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.PublishedOn)
}

// ListBooks returns a paginated, filtered book listing.
// GET /api/books?author_id=&q=&published_from=&published_to=&limit=&offset=
func (bc *BooksController) ListBooks(c *gin.Context) {
	limit, offset := parsePagination(c)

	filter := books.Filter{
		TitleQuery: c.Query("q"),
		Limit:      limit,
		Offset:     offset,
	}
	if v, err := strconv.ParseUint(c.Query("author_id"), 10, 32); err == nil {
		filter.AuthorID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("published_from")); err == nil {
		filter.PublishedFrom = v
	}
	if v, err := strconv.Atoi(c.Query("published_to")); err == nil {
		filter.PublishedTo = v
	}

	result, total, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	respondPaginated(c, result, total, limit, offset)
}

// GetBook returns a single book with its author.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// CreateBook creates a new book for an existing author.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author_id and published_on are required")
		return
	}

	published, err := req.publicationDate()
	if err != nil {
		respondBadRequest(c, "published_on must be an ISO date (YYYY-MM-DD)")
		return
	}

	if _, err := bc.authors.GetByID(req.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	book := &entities.Book{
		Title:       req.Title,
		AuthorID:    req.AuthorID,
		ISBN:        req.ISBN,
		PublishedOn: published,
	}
	if err := bc.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogCreate("book", book.ID, fmt.Sprintf("created book %q", book.Title))
	}

	respondCreated(c, book)
}

// UpdateBook updates an existing book, including moving it to another author.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title, author_id and published_on are required")
		return
	}

	published, err := req.publicationDate()
	if err != nil {
		respondBadRequest(c, "published_on must be an ISO date (YYYY-MM-DD)")
		return
	}

	book, err := bc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	if _, err := bc.authors.GetByID(req.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "author")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}

	book.Title = req.Title
	book.AuthorID = req.AuthorID
	book.ISBN = req.ISBN
	book.PublishedOn = published
	book.Author = entities.Author{} // drop the preloaded author so Save doesn't write it back
	if err := bc.store.Update(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogUpdate("book", book.ID, fmt.Sprintf("updated book %q", book.Title))
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook deletes a book.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get book")
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogDelete("book", id, fmt.Sprintf("deleted book %q", book.Title), 0)
	}

	respondSuccess(c, "book deleted")
}
