package books

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookfolio/bookfolio/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Author{}, &entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createAuthor(t *testing.T, db *gorm.DB, name, email string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name, Email: email}
	require.NoError(t, db.Create(author).Error)
	return author
}

func createBook(t *testing.T, repo *Repository, authorID uint, title string, year int) *entities.Book {
	t.Helper()
	book := &entities.Book{
		AuthorID:    authorID,
		Title:       title,
		PublishedOn: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(book))
	return book
}

func TestRepository_Create(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Jules Verne", "jules@example.com")

	book := &entities.Book{
		AuthorID:    author.ID,
		Title:       "Around the World in Eighty Days",
		ISBN:        "9780140449068",
		PublishedOn: time.Date(1872, 1, 30, 0, 0, 0, 0, time.UTC),
	}
	err := repo.Create(book)

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
}

func TestRepository_Create_MissingAuthor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Create(&entities.Book{
		AuthorID:    9999,
		Title:       "Orphan Book",
		PublishedOn: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err, "foreign key should reject a missing author")
}

func TestRepository_GetByID_PreloadsAuthor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Jules Verne", "jules@example.com")
	created := createBook(t, repo, author.ID, "The Mysterious Island", 1875)

	book, err := repo.GetByID(created.ID)

	require.NoError(t, err)
	assert.Equal(t, "The Mysterious Island", book.Title)
	assert.Equal(t, "Jules Verne", book.Author.Name)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(999)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	verne := createAuthor(t, db, "Jules Verne", "jules@example.com")
	shelley := createAuthor(t, db, "Mary Shelley", "mary@example.com")

	createBook(t, repo, verne.ID, "Journey to the Center of the Earth", 1864)
	createBook(t, repo, verne.ID, "Around the World in Eighty Days", 1872)
	createBook(t, repo, shelley.ID, "Frankenstein", 1818)

	t.Run("returns all books oldest first", func(t *testing.T) {
		books, total, err := repo.List(Filter{})

		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, books, 3)
		assert.Equal(t, "Frankenstein", books[0].Title)
	})

	t.Run("filters by author", func(t *testing.T) {
		books, total, err := repo.List(Filter{AuthorID: verne.ID})

		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, book := range books {
			assert.Equal(t, verne.ID, book.AuthorID)
		}
	})

	t.Run("filters by title substring", func(t *testing.T) {
		books, total, err := repo.List(Filter{TitleQuery: "world"})

		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, books, 1)
		assert.Equal(t, "Around the World in Eighty Days", books[0].Title)
	})

	t.Run("filters by publication year range", func(t *testing.T) {
		books, total, err := repo.List(Filter{PublishedFrom: 1860, PublishedTo: 1870})

		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, books, 1)
		assert.Equal(t, "Journey to the Center of the Earth", books[0].Title)
	})

	t.Run("paginates", func(t *testing.T) {
		books, total, err := repo.List(Filter{Limit: 2, Offset: 2})

		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, books, 1)
	})
}

func TestRepository_ListByAuthor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	verne := createAuthor(t, db, "Jules Verne", "jules@example.com")
	shelley := createAuthor(t, db, "Mary Shelley", "mary@example.com")

	createBook(t, repo, verne.ID, "Around the World in Eighty Days", 1872)
	createBook(t, repo, verne.ID, "Journey to the Center of the Earth", 1864)
	createBook(t, repo, shelley.ID, "Frankenstein", 1818)

	books, err := repo.ListByAuthor(verne.ID)

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Journey to the Center of the Earth", books[0].Title)
}

func TestRepository_GetByTitleForAuthor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Mary Shelley", "mary@example.com")
	created := createBook(t, repo, author.ID, "Frankenstein", 1818)

	book, err := repo.GetByTitleForAuthor("Frankenstein", author.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, book.ID)

	_, err = repo.GetByTitleForAuthor("Frankenstein", author.ID+1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Update(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Mary Shelley", "mary@example.com")
	book := createBook(t, repo, author.ID, "Frankenstin", 1818)

	book.Title = "Frankenstein"
	require.NoError(t, repo.Update(book))

	updated, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frankenstein", updated.Title)
}

func TestRepository_Delete(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Mary Shelley", "mary@example.com")
	book := createBook(t, repo, author.ID, "Frankenstein", 1818)

	require.NoError(t, repo.Delete(book.ID))

	_, err := repo.GetByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(book.ID), gorm.ErrRecordNotFound)
}

func TestRepository_CountForAuthor(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Jules Verne", "jules@example.com")
	createBook(t, repo, author.ID, "Around the World in Eighty Days", 1872)
	createBook(t, repo, author.ID, "The Mysterious Island", 1875)

	count, err := repo.CountForAuthor(author.ID)

	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
