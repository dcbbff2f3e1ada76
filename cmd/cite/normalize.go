package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/bibtex"
)

var normalizeOutput string

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(normalizeCmd)
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file.bib]",
	Short: "Rewrite a bibliography in normalized form",
	Long: `Rewrite every entry with one braced value per field, LaTeX macros
flattened, and fields in a fixed order. The result is what the site serves as
citations.normalized.bib.

Without a file argument the configured bibliography is normalized.

Examples:
  cite normalize citations.bib -o citations.normalized.bib
  cite normalize --site-dir ~/site > normalized.bib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", args[0], err)
		}
		text = string(data)
	} else {
		var err error
		text, err = newLibrary().Text(cmd.Context())
		exitOnError(err, "loading bibliography")
	}

	entries, err := bibtex.SplitStrict(text)
	if err != nil {
		logger.Warn().Err(err).Msg("bibliography truncated; normalizing complete entries only")
	}
	if len(entries) == 0 {
		exitWithError(ExitDataError, "no entries found")
	}

	out := bibtex.Normalize(text)

	if normalizeOutput == "" {
		fmt.Print(out)
		return nil
	}

	if err := os.WriteFile(normalizeOutput, []byte(out), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", normalizeOutput, err)
	}
	if humanOutput {
		fmt.Printf("Wrote %d entries to %s\n", len(entries), normalizeOutput)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: normalizeOutput, Count: len(entries)})
	}
	return nil
}
