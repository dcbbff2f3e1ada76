package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/pdf"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <publication>",
	Short: "Open a publication's PDF in the configured viewer",
	Long: `Open a publication's PDF in the configured viewer.

The pdf link in content.json is resolved against pdf_root (or site_dir).

Examples:
  cite open 2024-quantifying-exposure-biases`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

// OpenResult is the response for the open command.
type OpenResult struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

func runOpen(cmd *cobra.Command, args []string) error {
	pub := publicationFromArgs(args)
	if pub.PDF == "" {
		exitWithError(ExitNotFound, "no PDF link for publication: %s", pub.ID)
	}
	if cfg.PDFDir() == "" {
		exitWithError(ExitConfigError, "pdf_root not configured (use 'cite config pdf_root /path/to/site')")
	}

	opener := pdf.NewOpener(cfg.PDFDir(), cfg.PDFReader)
	fullPath, err := opener.ResolvePath(pub.PDF)
	if err != nil {
		code := ExitError
		if errors.Is(err, pdf.ErrRemote) {
			code = ExitNotFound
		}
		exitWithError(code, "%v", err)
	}

	if err := opener.Open(fullPath); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opening: %s\n", pub.PDF)
	} else {
		outputJSON(OpenResult{Status: "opened", Path: fullPath})
	}
	return nil
}
