package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"readinglist/internal/config"
	"readinglist/internal/database"
	"readinglist/internal/database/store"
)

// ExportCommand dumps the persisted reading list as pretty-printed JSON,
// either to stdout or to a file.
type ExportCommand struct {
	DatabasePath string
	OutputPath   string
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output file path (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the persisted reading list as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -output books.json -db ./readinglist.db\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	books, err := store.NewRepository(db.DB).Load()
	if err != nil {
		return fmt.Errorf("load book list: %w", err)
	}

	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("encode book list: %w", err)
	}
	data = append(data, '\n')

	if cmd.OutputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(cmd.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cmd.OutputPath, err)
	}
	fmt.Printf("Exported %d books to %s\n", len(books), cmd.OutputPath)
	return nil
}
