// Command import parses broker statement exports from the command line and
// either persists them into a dataset partition or writes the canonical CSV
// to stdout, printing per-row discard diagnostics either way.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"forex-journal/internal/ingest"
	"forex-journal/internal/storage/sqlite"
	"forex-journal/internal/store"
)

func main() {
	dataset := flag.String("dataset", "", "dataset partition to import into (A, B, C or empty for real)")
	dryRun := flag.Bool("dry-run", false, "parse only: write canonical CSV to stdout, touch nothing")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: import [-dataset A] [-dry-run] statement.csv [statement.html ...]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	combined := ingest.Report{}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}
		r := ingest.Parse(path, data)
		fmt.Fprintf(os.Stderr, "%s: %d trades, %d discarded, %d warnings\n",
			path, len(r.Trades), len(r.Discards), len(r.Warnings))
		combined.Trades = append(combined.Trades, r.Trades...)
		combined.Discards = append(combined.Discards, r.Discards...)
		combined.Warnings = append(combined.Warnings, r.Warnings...)
	}

	for _, d := range combined.Discards {
		fmt.Fprintf(os.Stderr, "  discarded line %d: %s\n", d.Line, d.Reason)
	}
	for _, w := range combined.Warnings {
		fmt.Fprintf(os.Stderr, "  warning line %d: %s\n", w.Line, w.Reason)
	}

	if *dryRun {
		out, err := ingest.ExportCSV(combined.Trades)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	ctx := context.Background()
	repo, err := sqlite.NewRepository(ctx, sqlite.Config{
		DBPath:      cfg.Storage.DBPath,
		InsertChunk: cfg.Storage.InsertChunk,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	for i := range combined.Trades {
		combined.Trades[i].Dataset = *dataset
	}
	if err := repo.ReplaceDataset(ctx, *dataset, combined.Trades); err != nil {
		fmt.Fprintf(os.Stderr, "Import failed, nothing changed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Imported %d trades into dataset %q\n", len(combined.Trades), *dataset)
}
