// Command generate_demo creates a demo catalog database with public domain
// authors and books.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bookfolio/bookfolio/internal/database"
	"github.com/bookfolio/bookfolio/internal/database/authors"
	"github.com/bookfolio/bookfolio/internal/database/books"
	"github.com/bookfolio/bookfolio/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoAuthor struct {
	entities.Author
	Books []entities.Book
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo catalog at %s...", *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	authorsRepo := authors.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)

	for _, demo := range demoCatalog() {
		author := demo.Author
		if err := authorsRepo.Create(&author); err != nil {
			log.Printf("Failed to save author %s: %v", author.Name, err)
			continue
		}

		saved := 0
		for _, book := range demo.Books {
			book.AuthorID = author.ID
			if err := booksRepo.Create(&book); err != nil {
				log.Printf("Failed to save book %s: %v", book.Title, err)
				continue
			}
			saved++
		}

		log.Printf("Saved: %s (%d books)", author.Name, saved)
	}

	totalAuthors, totalBooks, err := db.GetStats()
	if err != nil {
		log.Fatalf("Failed to read catalog stats: %v", err)
	}
	log.Printf("Demo catalog generated: %d authors, %d books", totalAuthors, totalBooks)
}

func demoCatalog() []demoAuthor {
	return []demoAuthor{
		{
			Author: entities.Author{
				Name:  "Mary Shelley",
				Email: "mary.shelley@demo.bookfolio.local",
				Bio:   "English novelist, best known for Frankenstein.",
			},
			Books: []entities.Book{
				{Title: "Frankenstein; or, The Modern Prometheus", PublishedOn: date(1818, 1, 1)},
				{Title: "The Last Man", PublishedOn: date(1826, 1, 1)},
			},
		},
		{
			Author: entities.Author{
				Name:  "Jules Verne",
				Email: "jules.verne@demo.bookfolio.local",
				Bio:   "French novelist and pioneer of the adventure genre.",
			},
			Books: []entities.Book{
				{Title: "Twenty Thousand Leagues Under the Seas", PublishedOn: date(1870, 6, 20)},
				{Title: "Around the World in Eighty Days", PublishedOn: date(1872, 1, 30)},
				{Title: "Journey to the Center of the Earth", PublishedOn: date(1864, 11, 25)},
			},
		},
		{
			Author: entities.Author{
				Name:  "Jane Austen",
				Email: "jane.austen@demo.bookfolio.local",
				Bio:   "English novelist known for her social commentary.",
			},
			Books: []entities.Book{
				{Title: "Pride and Prejudice", PublishedOn: date(1813, 1, 28)},
				{Title: "Sense and Sensibility", PublishedOn: date(1811, 10, 30)},
				{Title: "Emma", PublishedOn: date(1815, 12, 23)},
			},
		},
		{
			Author: entities.Author{
				Name:  "H. G. Wells",
				Email: "hg.wells@demo.bookfolio.local",
			},
			Books: []entities.Book{
				{Title: "The Time Machine", PublishedOn: date(1895, 5, 7)},
				{Title: "The War of the Worlds", PublishedOn: date(1898, 1, 1)},
			},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
