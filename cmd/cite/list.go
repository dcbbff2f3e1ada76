package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/storage"
)

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum entries to list (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bibliography entries",
	Long: `List the entries of the site bibliography in source order.

Examples:
  cite list --human
  cite list --limit 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// ListResult is the response for the list command.
type ListResult struct {
	Origin  string        `json:"origin"`
	Count   int           `json:"count"`
	Entries []storage.Hit `json:"entries"`
}

func runList(cmd *cobra.Command, args []string) error {
	lib := newLibrary()
	idx, err := lib.Index(cmd.Context())
	exitOnError(err, "loading bibliography")

	entries := idx.Entries
	if listLimit > 0 && len(entries) > listLimit {
		entries = entries[:listLimit]
	}

	hits := make([]storage.Hit, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, storage.HitFromEntry(e))
	}

	if humanOutput {
		fmt.Printf("%d entries from %s\n\n", idx.Len(), lib.Origin())
		printHits(hits)
	} else {
		outputJSON(ListResult{Origin: lib.Origin(), Count: idx.Len(), Entries: hits})
	}
	return nil
}

func printHits(hits []storage.Hit) {
	for i, h := range hits {
		year := h.Year
		if year == "" {
			year = "n.d."
		}
		fmt.Printf("[%d] %s (%s, %s)\n", i+1, h.Key, h.Type, year)
		fmt.Printf("    %s\n", truncateString(h.Title, ListTitleMaxLen))
	}
}
