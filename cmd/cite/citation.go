package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/cite"
	"github.com/scholarsite/citekit/internal/export"
)

var (
	bibtexAppend string
	copyBibTeX   bool
	downloadDir  string
)

func init() {
	for _, c := range []*cobra.Command{apaCmd, bibtexCmd, copyCmd, downloadCmd} {
		addPublicationFlags(c)
		rootCmd.AddCommand(c)
	}
	bibtexCmd.Flags().StringVar(&bibtexAppend, "append", "", "Append the entry to a .bib file unless it is already there")
	copyCmd.Flags().BoolVar(&copyBibTeX, "bibtex", false, "Copy the BibTeX entry instead of the APA reference")
	downloadCmd.Flags().StringVar(&downloadDir, "dir", "", "Directory to write the .bib file to (default download_dir or .)")
}

var apaCmd = &cobra.Command{
	Use:   "apa [publication]",
	Short: "Print the APA reference for a publication",
	Long: `Print the APA reference for a publication.

The publication is looked up in content.json by id, DOI, or title. Without an
argument it is described with --title, --doi, --authors, and --year.

Examples:
  cite apa 2024-quantifying-exposure-biases
  cite apa 10.1002/joc.8401 --human
  cite apa --title "Quantifying exposure biases" --year 2024`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAPA,
}

var bibtexCmd = &cobra.Command{
	Use:   "bibtex [publication]",
	Short: "Print the BibTeX entry for a publication",
	Long: `Print the BibTeX entry for a publication.

The entry is taken verbatim from the site bibliography. When the publication
has no entry there, one is synthesized from its record.

Examples:
  cite bibtex 2024-quantifying-exposure-biases
  cite bibtex 2024-quantifying-exposure-biases --append refs.bib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBibTeX,
}

var copyCmd = &cobra.Command{
	Use:   "copy [publication]",
	Short: "Copy a citation to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCopy,
}

var downloadCmd = &cobra.Command{
	Use:   "download [publication]",
	Short: "Save a publication's BibTeX entry as <id>.bib",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDownload,
}

func citeFromArgs(cmd *cobra.Command, args []string) (*cite.Presenter, *cite.Citation) {
	pub := publicationFromArgs(args)
	p := newPresenter(newLibrary())
	return p, requestCitation(cmd, p, pub)
}

func runAPA(cmd *cobra.Command, args []string) error {
	_, c := citeFromArgs(cmd, args)

	if humanOutput {
		fmt.Println(c.APA)
	} else {
		outputJSON(c)
	}
	return nil
}

// BibTeXAppendResult is the response for bibtex --append.
type BibTeXAppendResult struct {
	Status string `json:"status"` // appended, exists
	Path   string `json:"path"`
	Key    string `json:"key"`
}

func runBibTeX(cmd *cobra.Command, args []string) error {
	_, c := citeFromArgs(cmd, args)

	if bibtexAppend == "" {
		if humanOutput {
			fmt.Println(c.BibTeX)
		} else {
			outputJSON(c)
		}
		return nil
	}

	status := "appended"
	existing, err := os.ReadFile(bibtexAppend)
	if err != nil && !os.IsNotExist(err) {
		exitWithError(ExitError, "reading %s: %v", bibtexAppend, err)
	}
	doi := bibtex.NewEntry(c.BibTeX).Field("doi")
	if bibtex.BuildIndex(string(existing)).HasEntry(c.Key, doi) {
		status = "exists"
	} else if err := export.AppendToBibFile(bibtexAppend, c.BibTeX+"\n"); err != nil {
		exitWithError(ExitError, "appending to %s: %v", bibtexAppend, err)
	}

	if humanOutput {
		if status == "exists" {
			fmt.Printf("%s already in %s\n", c.Key, bibtexAppend)
		} else {
			fmt.Printf("Appended %s to %s\n", c.Key, bibtexAppend)
		}
	} else {
		outputJSON(BibTeXAppendResult{Status: status, Path: bibtexAppend, Key: c.Key})
	}
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	p, c := citeFromArgs(cmd, args)

	text, format := c.APA, "apa"
	if copyBibTeX {
		text, format = c.BibTeX, "bibtex"
	}
	if err := p.Copy(text); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Copied %s citation for %s\n", format, c.Title)
	} else {
		outputJSON(map[string]string{"status": "copied", "format": format, "text": text})
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	p, c := citeFromArgs(cmd, args)

	dir := downloadDir
	if dir == "" {
		dir = cfg.DownloadDir
	}
	if dir == "" {
		dir = "."
	}

	path, err := p.Download(c, dir)
	exitOnError(err, "saving citation")

	if humanOutput {
		fmt.Printf("Saved %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "saved", Path: path})
	}
	return nil
}
