package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/cite"
	"github.com/scholarsite/citekit/internal/content"
	"github.com/scholarsite/citekit/internal/library"
	"github.com/scholarsite/citekit/internal/pdf"
	"github.com/scholarsite/citekit/internal/reference"
)

// Flags describing a publication that is not in content.json.
var (
	pubTitle   string
	pubDOI     string
	pubAuthors string
	pubYear    string
)

func addPublicationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&pubTitle, "title", "", "Publication title (when not citing from content.json)")
	cmd.Flags().StringVar(&pubDOI, "doi", "", "Publication DOI (when not citing from content.json)")
	cmd.Flags().StringVar(&pubAuthors, "authors", "", `Authors, e.g. "Wallis, Osborn, Taylor"`)
	cmd.Flags().StringVar(&pubYear, "year", "", "Publication year")
}

// loadContent reads the configured content document.
func loadContent() *content.Document {
	doc, err := content.Load(cfg.ContentFilePath())
	exitOnError(err, "loading content")
	return doc
}

// publicationFromArgs finds the publication named by args[0] (id, DOI, or
// title) in content.json, or builds one from the publication flags.
func publicationFromArgs(args []string) reference.Publication {
	if len(args) == 1 {
		doc := loadContent()
		pub, ok := doc.Find(args[0])
		if !ok {
			exitWithError(ExitNotFound, "publication not found in %s: %s", cfg.ContentFilePath(), args[0])
		}
		return pub
	}

	pub := publicationFromFlags()
	if pub.Title == "" && pub.DOI == "" {
		exitWithError(ExitError, "give a publication id, or --title or --doi")
	}
	return pub
}

func publicationFromFlags() reference.Publication {
	return reference.Publication{
		Title:   strings.TrimSpace(pubTitle),
		DOI:     strings.TrimSpace(pubDOI),
		Authors: strings.TrimSpace(pubAuthors),
		Year:    reference.FlexibleString(strings.TrimSpace(pubYear)),
	}
}

// newPresenter wires a presenter to lib. Local PDFs are consulted when the
// site directory or pdf_root is known.
func newPresenter(lib *library.Library) *cite.Presenter {
	opts := []cite.Option{cite.WithLogger(logger)}
	if dir := cfg.PDFDir(); dir != "" {
		opts = append(opts, cite.WithPDFs(pdf.NewOpener(dir, cfg.PDFReader)))
	}
	return cite.NewPresenter(lib, opts...)
}

// requestCitation resolves pub and exits on failure.
func requestCitation(cmd *cobra.Command, p *cite.Presenter, pub reference.Publication) *cite.Citation {
	c, err := p.Request(cmd.Context(), pub)
	exitOnError(err, "citing")
	return c
}
