package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/storage"
)

var (
	searchLimit   int
	searchRebuild bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum results to return")
	searchCmd.Flags().BoolVar(&searchRebuild, "rebuild", false, "Rebuild the search database even if it is current")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bibliography entries by keyword",
	Long: `Search bibliography entries by keyword.

The search database lives in the cache directory and is rebuilt whenever the
bibliography text changes.

Query Syntax:
  Plain text     - Searches keys, titles, authors, and years
  author:name    - Search author names only
  title:text     - Search titles only
  key:text       - Search citation keys only

Examples:
  cite search "sea ice"
  cite search "author:Osborn"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	lib := newLibrary()
	text, err := lib.Text(cmd.Context())
	exitOnError(err, "loading bibliography")

	db := mustOpenSearchDB()
	defer db.Close()

	hash := storage.ContentHash(text)
	fresh, err := db.IsFresh(hash)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if !fresh || searchRebuild {
		idx, _ := lib.Index(cmd.Context())
		n, err := db.RebuildFromIndex(idx, hash)
		if err != nil {
			exitWithError(ExitError, "rebuilding search database: %v", err)
		}
		logger.Debug().Int("entries", n).Str("origin", lib.Origin()).Msg("search database rebuilt")
	}

	hits, err := searchQuery(db, args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	// Empty result is not an error
	if hits == nil {
		hits = []storage.Hit{}
	}

	if humanOutput {
		if len(hits) == 0 {
			fmt.Println("No entries found")
		} else {
			fmt.Printf("Found %d entries:\n\n", len(hits))
			printHits(hits)
		}
	} else {
		outputJSON(hits)
	}
	return nil
}

func searchQuery(db *storage.DB, query string) ([]storage.Hit, error) {
	for _, field := range []string{"author", "title", "key"} {
		if value, ok := strings.CutPrefix(query, field+":"); ok {
			return db.SearchField(field, value, searchLimit)
		}
	}
	return db.Search(query, searchLimit)
}

func mustOpenSearchDB() *storage.DB {
	path := cfg.DBPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitConfigError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return db
}
