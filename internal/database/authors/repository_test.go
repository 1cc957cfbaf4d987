package authors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookfolio/bookfolio/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_authors_" + t.Name() + ".db"

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

	return repo, cleanup
}

func createAuthor(t *testing.T, repo *Repository, name, email string) *entities.Author {
	t.Helper()
	author := &entities.Author{Name: name, Email: email}
	require.NoError(t, repo.Create(author))
	return author
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "Jane Austen", Email: "jane@example.com", Bio: "English novelist"}
	err := repo.Create(author)

	require.NoError(t, err)
	assert.NotZero(t, author.ID)
	assert.False(t, author.CreatedAt.IsZero())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createAuthor(t, repo, "Jane Austen", "jane@example.com")

	err := repo.Create(&entities.Author{Name: "Impostor", Email: "jane@example.com"})
	assert.Error(t, err)
}

func TestRepository_GetByID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createAuthor(t, repo, "Jane Austen", "jane@example.com")

	author, err := repo.GetByID(created.ID)

	require.NoError(t, err)
	assert.Equal(t, "Jane Austen", author.Name)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(999)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_GetByEmail(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createAuthor(t, repo, "Jane Austen", "jane@example.com")

	author, err := repo.GetByEmail("jane@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, author.ID)
}

func TestRepository_EmailCaseNormalized(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := createAuthor(t, repo, "Jane Austen", "Jane@Example.COM")
	assert.Equal(t, "jane@example.com", created.Email)

	author, err := repo.GetByEmail("JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, author.ID)

	taken, err := repo.EmailTaken("jane@EXAMPLE.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// A mixed-case duplicate must hit the same unique index entry
	err = repo.Create(&entities.Author{Name: "Impostor", Email: "JANE@EXAMPLE.COM"})
	assert.Error(t, err)
}

func TestRepository_List(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createAuthor(t, repo, "Jane Austen", "jane@example.com")
	createAuthor(t, repo, "Jules Verne", "jules@example.com")
	createAuthor(t, repo, "Mary Shelley", "mary@example.com")

	t.Run("returns all authors ordered by name", func(t *testing.T) {
		authors, total, err := repo.List("", 50, 0)

		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, authors, 3)
		assert.Equal(t, "Jane Austen", authors[0].Name)
		assert.Equal(t, "Mary Shelley", authors[2].Name)
	})

	t.Run("filters by name substring", func(t *testing.T) {
		authors, total, err := repo.List("verne", 50, 0)

		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, authors, 1)
		assert.Equal(t, "Jules Verne", authors[0].Name)
	})

	t.Run("filters by email substring", func(t *testing.T) {
		authors, _, err := repo.List("mary@", 50, 0)

		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Mary Shelley", authors[0].Name)
	})

	t.Run("paginates", func(t *testing.T) {
		authors, total, err := repo.List("", 2, 2)

		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, authors, 1)
	})
}

func TestRepository_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, repo, "Jane Austen", "jane@example.com")

	author.Bio = "Author of Pride and Prejudice"
	require.NoError(t, repo.Update(author))

	updated, err := repo.GetByID(author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Author of Pride and Prejudice", updated.Bio)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, repo, "Jane Austen", "jane@example.com")

	require.NoError(t, repo.Delete(author.ID))

	_, err := repo.GetByID(author.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(999)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_EmailTaken(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, repo, "Jane Austen", "jane@example.com")

	taken, err := repo.EmailTaken("jane@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The author's own record doesn't count when updating
	taken, err = repo.EmailTaken("jane@example.com", author.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailTaken("unknown@example.com", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}
