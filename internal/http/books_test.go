package http

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookfolio/bookfolio/internal/database"
	"github.com/bookfolio/bookfolio/internal/database/authors"
	"github.com/bookfolio/bookfolio/internal/database/books"
	"github.com/bookfolio/bookfolio/internal/entities"
)

func setupBooksTest(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authorsRepo := authors.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	controller := NewBooksController(booksRepo, authorsRepo, nil)

	router := gin.New()
	router.GET("/api/books", controller.ListBooks)
	router.POST("/api/books", controller.CreateBook)
	router.GET("/api/books/:id", controller.GetBook)
	router.PUT("/api/books/:id", controller.UpdateBook)
	router.DELETE("/api/books/:id", controller.DeleteBook)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, cleanup
}

func seedAuthor(t *testing.T, db *database.Database, name, email string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name, Email: email}
	require.NoError(t, db.DB.Create(author).Error)
	return author
}

func seedBook(t *testing.T, db *database.Database, authorID uint, title string, year int) *entities.Book {
	t.Helper()
	book := &entities.Book{
		AuthorID:    authorID,
		Title:       title,
		PublishedOn: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("creates a book for an existing author", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		seedAuthor(t, db, "Jules Verne", "jules@example.com")

		w := postJSON(t, router, "/api/books",
			`{"title": "Around the World in Eighty Days", "author_id": 1, "published_on": "1872-01-30"}`)

		assert.Equal(t, http.StatusCreated, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Around the World in Eighty Days", book.Title)
		assert.Equal(t, uint(1), book.AuthorID)
	})

	t.Run("returns 404 when the author does not exist", func(t *testing.T) {
		router, _, cleanup := setupBooksTest(t)
		defer cleanup()

		w := postJSON(t, router, "/api/books",
			`{"title": "Orphan Book", "author_id": 999, "published_on": "2000-01-01"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a malformed publication date", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		seedAuthor(t, db, "Jules Verne", "jules@example.com")

		w := postJSON(t, router, "/api/books",
			`{"title": "Bad Date", "author_id": 1, "published_on": "January 1872"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		router, _, cleanup := setupBooksTest(t)
		defer cleanup()

		w := postJSON(t, router, "/api/books", `{"title": "No Author"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns the book with its author preloaded", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		author := seedAuthor(t, db, "Mary Shelley", "mary@example.com")
		seedBook(t, db, author.ID, "Frankenstein", 1818)

		w := doRequest(t, router, "GET", "/api/books/1")

		assert.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Frankenstein", book.Title)
		assert.Equal(t, "Mary Shelley", book.Author.Name)
	})

	t.Run("returns 404 for a missing book", func(t *testing.T) {
		router, _, cleanup := setupBooksTest(t)
		defer cleanup()

		w := doRequest(t, router, "GET", "/api/books/999")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_ListBooks(t *testing.T) {
	router, db, cleanup := setupBooksTest(t)
	defer cleanup()

	verne := seedAuthor(t, db, "Jules Verne", "jules@example.com")
	shelley := seedAuthor(t, db, "Mary Shelley", "mary@example.com")
	seedBook(t, db, verne.ID, "Journey to the Center of the Earth", 1864)
	seedBook(t, db, verne.ID, "Around the World in Eighty Days", 1872)
	seedBook(t, db, shelley.ID, "Frankenstein", 1818)

	t.Run("returns all books", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/books")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 3, resp.Total)
	})

	t.Run("filters by author", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/books?author_id=1")

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 2, resp.Total)
	})

	t.Run("filters by title and year range", func(t *testing.T) {
		w := doRequest(t, router, "GET", "/api/books?q=world&published_from=1870&published_to=1880")

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Total)
	})
}

func TestBooksController_UpdateBook(t *testing.T) {
	t.Run("updates a book and moves it to another author", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		verne := seedAuthor(t, db, "Jules Verne", "jules@example.com")
		shelley := seedAuthor(t, db, "Mary Shelley", "mary@example.com")
		seedBook(t, db, verne.ID, "Misfiled Book", 1818)

		w := putJSON(t, router, "/api/books/1",
			`{"title": "Frankenstein", "author_id": 2, "published_on": "1818-01-01"}`)

		assert.Equal(t, http.StatusOK, w.Code)

		var book entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
		assert.Equal(t, "Frankenstein", book.Title)
		assert.Equal(t, shelley.ID, book.AuthorID)
	})

	t.Run("returns 404 for a missing book", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		seedAuthor(t, db, "Jules Verne", "jules@example.com")

		w := putJSON(t, router, "/api/books/999",
			`{"title": "Ghost", "author_id": 1, "published_on": "1900-01-01"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 404 when the new author does not exist", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		author := seedAuthor(t, db, "Jules Verne", "jules@example.com")
		seedBook(t, db, author.ID, "The Mysterious Island", 1875)

		w := putJSON(t, router, "/api/books/1",
			`{"title": "The Mysterious Island", "author_id": 999, "published_on": "1875-01-01"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_DeleteBook(t *testing.T) {
	t.Run("deletes a book without touching the author", func(t *testing.T) {
		router, db, cleanup := setupBooksTest(t)
		defer cleanup()

		author := seedAuthor(t, db, "Mary Shelley", "mary@example.com")
		seedBook(t, db, author.ID, "Frankenstein", 1818)

		w := doRequest(t, router, "DELETE", "/api/books/1")

		assert.Equal(t, http.StatusOK, w.Code)

		var bookCount, authorCount int64
		require.NoError(t, db.DB.Model(&entities.Book{}).Count(&bookCount).Error)
		require.NoError(t, db.DB.Model(&entities.Author{}).Count(&authorCount).Error)
		assert.Zero(t, bookCount)
		assert.EqualValues(t, 1, authorCount)
	})

	t.Run("returns 404 for a missing book", func(t *testing.T) {
		router, _, cleanup := setupBooksTest(t)
		defer cleanup()

		w := doRequest(t, router, "DELETE", "/api/books/999")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
