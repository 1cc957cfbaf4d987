// Package cli implements the command line commands of the catalog binary.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/bookfolio/bookfolio/internal/config"
	"github.com/bookfolio/bookfolio/internal/database"
	"github.com/bookfolio/bookfolio/internal/importers"
)

// ImportCatalogCommand handles importing a catalog CSV into the database.
type ImportCatalogCommand struct {
	CatalogPath  string
	DatabasePath string
	Verbose      bool
	DryRun       bool
}

func NewImportCatalogCommand() *ImportCatalogCommand {
	return &ImportCatalogCommand{}
}

func (cmd *ImportCatalogCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-catalog", flag.ExitOnError)

	fs.StringVar(&cmd.CatalogPath, "file", "", "Path to the catalog CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-catalog -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import authors and books from a catalog CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Expected columns (header row optional):\n")
		fmt.Fprintf(os.Stderr, "  author_name,author_email,title,published_on[,isbn]\n\n")
		fmt.Fprintf(os.Stderr, "Authors are matched by email, books by title per author;\n")
		fmt.Fprintf(os.Stderr, "existing entries are never duplicated.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import a catalog:\n")
		fmt.Fprintf(os.Stderr, "  %s import-catalog -file catalog.csv\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import-catalog -file catalog.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CatalogPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCatalogCommand) Run() error {
	fmt.Println("Catalog Import")
	fmt.Println("==============")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	if _, err := os.Stat(cmd.CatalogPath); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", cmd.CatalogPath)
	}

	fmt.Printf("File: %s\n", cmd.CatalogPath)

	file, err := os.Open(cmd.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	rows, rowErrors, err := importers.ParseCatalogCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if len(rowErrors) > 0 {
		fmt.Printf("\n%d rows could not be parsed:\n", len(rowErrors))
		for _, msg := range rowErrors {
			fmt.Printf("  [ERROR] %s\n", msg)
		}
	}

	if len(rows) == 0 {
		fmt.Println("No importable rows found in catalog file")
		return nil
	}

	authorEmails := importers.AuthorEmails(rows)
	fmt.Printf("Found %s books across %s authors\n",
		humanize.Comma(int64(len(rows))), humanize.Comma(int64(len(authorEmails))))

	if cmd.Verbose {
		fmt.Println("\n=== Rows Found ===")
		for i, row := range rows {
			fmt.Printf("%d. %q by %s <%s> (%s)\n",
				i+1, row.Title, row.AuthorName, row.AuthorEmail,
				row.PublishedOn.Format("2006-01-02"))
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Printf("\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	result := importers.NewImporter(db.DB).Import(rows)

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Authors created: %s\n", humanize.Comma(int64(result.AuthorsCreated)))
	fmt.Printf("Books created: %s\n", humanize.Comma(int64(result.BooksCreated)))
	fmt.Printf("Books skipped (already present): %s\n", humanize.Comma(int64(result.Skipped)))

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Printf("  [ERROR] %s\n", msg)
		}
	}

	fmt.Println("\nImport complete!")
	return nil
}
