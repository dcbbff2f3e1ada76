package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/apa"
	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/resolve"
)

const maxSuggestions = 5

var (
	getKey   string
	getDOI   string
	getTitle string
)

func init() {
	getCmd.Flags().StringVar(&getKey, "key", "", "Citation key")
	getCmd.Flags().StringVar(&getDOI, "doi", "", "DOI in any form (bare, doi:, or https://doi.org/)")
	getCmd.Flags().StringVar(&getTitle, "title", "", "Title (matched after normalization)")
	getCmd.MarkFlagsMutuallyExclusive("key", "doi", "title")
	getCmd.MarkFlagsOneRequired("key", "doi", "title")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a raw bibliography entry",
	Long: `Get one entry from the site bibliography by key, DOI, or title.

Title lookups try an exact normalized match first, then the same containment
match used for citations. When nothing matches, the closest titles are
suggested.

Examples:
  cite get --key wallis2024
  cite get --doi https://doi.org/10.1002/joc.8401
  cite get --title "Quantifying exposure biases" --human`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

// EntryResponse describes one bibliography entry.
type EntryResponse struct {
	Key    string `json:"key"`
	Type   string `json:"type"`
	DOI    string `json:"doi,omitempty"`
	Title  string `json:"title"`
	Year   string `json:"year,omitempty"`
	APA    string `json:"apa"`
	BibTeX string `json:"bibtex"`
}

func newEntryResponse(e bibtex.Entry) EntryResponse {
	return EntryResponse{
		Key:    e.Key(),
		Type:   e.Type(),
		DOI:    apa.DOI(e),
		Title:  bibtex.PlainText(e.Field("title")),
		Year:   e.Field("year"),
		APA:    apa.Format(e),
		BibTeX: e.Text(),
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	idx, err := newLibrary().Index(cmd.Context())
	exitOnError(err, "loading bibliography")

	var entry bibtex.Entry
	var ok bool
	switch {
	case getKey != "":
		entry, ok = idx.ByKey(getKey)
	case getDOI != "":
		entry, ok = idx.ByDOI(getDOI)
	default:
		entry, ok = idx.ByTitle(getTitle)
		if !ok {
			if best := resolve.FuzzyTitle(bibtex.TitleKey(getTitle), idx.Titles()); best != "" {
				entry, ok = idx.ByNormalizedTitle(best)
			}
		}
	}

	if !ok {
		reportEntryNotFound(idx)
	}

	resp := newEntryResponse(entry)
	if humanOutput {
		fmt.Printf("%s (%s)\n\n%s\n\n%s\n", resp.Key, resp.Type, resp.APA, resp.BibTeX)
	} else {
		outputJSON(resp)
	}
	return nil
}

func reportEntryNotFound(idx *bibtex.Index) {
	query := getKey
	if getDOI != "" {
		query = getDOI
	}
	var suggestions []string
	if getTitle != "" {
		query = getTitle
		for _, t := range resolve.Suggest(bibtex.TitleKey(getTitle), idx.Titles(), maxSuggestions) {
			if e, ok := idx.ByNormalizedTitle(t); ok {
				suggestions = append(suggestions, bibtex.PlainText(e.Field("title")))
			}
		}
	}

	msg := fmt.Sprintf("entry not found: %s", query)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		if len(suggestions) > 0 {
			fmt.Fprintln(os.Stderr, "did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(os.Stderr, "  %s\n", s)
			}
		}
	} else {
		outputJSON(ErrorResponse{Error: msg, Suggestions: suggestions})
	}
	os.Exit(ExitNotFound)
}
