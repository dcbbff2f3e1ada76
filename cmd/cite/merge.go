package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/content"
)

var mergeDryRun bool

func init() {
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Print the merged document instead of saving it")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge bibliography entries into content.json",
	Long: `Build publication records from the bibliography and merge them into the
content document's publications list.

Records are matched by DOI, then by normalized title. Values already present
in content.json are kept; only empty fields are filled. New records are
added and the list is sorted by year, newest first.

Examples:
  cite merge --bib-file citations.bib --dry-run
  cite merge --site-dir ~/site`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

// MergeResult is the response for the merge command.
type MergeResult struct {
	Status   string `json:"status"` // merged, dry-run
	Path     string `json:"path"`
	Incoming int    `json:"incoming"`
	Before   int    `json:"before"`
	After    int    `json:"after"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	text, err := newLibrary().Text(cmd.Context())
	exitOnError(err, "loading bibliography")

	path := cfg.ContentFilePath()
	doc := loadContent()
	incoming := content.FromBibliography(text)

	before := len(doc.Publications)
	doc.Publications = content.Merge(doc.Publications, incoming)

	result := MergeResult{
		Status:   "merged",
		Path:     path,
		Incoming: len(incoming),
		Before:   before,
		After:    len(doc.Publications),
	}

	if mergeDryRun {
		data, err := doc.Marshal()
		exitOnError(err, "encoding content")
		fmt.Print(string(data))
		return nil
	}

	exitOnError(doc.Save(path), "saving content")
	logger.Info().Str("path", path).Int("publications", result.After).Msg("content merged")

	if humanOutput {
		fmt.Printf("Merged %d entries into %s (%d -> %d publications)\n",
			result.Incoming, path, result.Before, result.After)
	} else {
		outputJSON(result)
	}
	return nil
}
