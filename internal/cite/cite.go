// Package cite answers citation requests for publications: it resolves a
// publication against the site bibliography, formats the APA reference, and
// exports the BibTeX text to the clipboard or a .bib file.
package cite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scholarsite/citekit/internal/apa"
	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/clipboard"
	"github.com/scholarsite/citekit/internal/export"
	"github.com/scholarsite/citekit/internal/library"
	"github.com/scholarsite/citekit/internal/pdf"
	"github.com/scholarsite/citekit/internal/reference"
	"github.com/scholarsite/citekit/internal/resolve"
)

// ErrUnexpected wraps any failure during citation construction other than
// an unavailable bibliography.
var ErrUnexpected = errors.New("unexpected citation failure")

// Citation is the result of one request. It is never cached.
type Citation struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	APA    string       `json:"apa"`
	BibTeX string       `json:"bibtex"`
	Key    string       `json:"key"`
	Match  resolve.Kind `json:"match"`
}

// formatAPA is replaced in tests.
var formatAPA = apa.Format

// Presenter serves citation requests from one Library.
type Presenter struct {
	lib       *library.Library
	clipboard clipboard.Writer
	pdfs      *pdf.Opener
	logger    zerolog.Logger
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(w clipboard.Writer) Option {
	return func(p *Presenter) {
		p.clipboard = w
	}
}

// WithPDFs enables filling a missing DOI or title from the publication's
// local PDF.
func WithPDFs(o *pdf.Opener) Option {
	return func(p *Presenter) {
		p.pdfs = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// NewPresenter creates a presenter backed by lib.
func NewPresenter(lib *library.Library, opts ...Option) *Presenter {
	p := &Presenter{
		lib:       lib,
		clipboard: clipboard.System{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request resolves pub and formats its citation. The bibliography is loaded
// on the first request. Errors from loading are returned as is; any other
// failure, including a panic, is wrapped in ErrUnexpected.
func (p *Presenter) Request(ctx context.Context, pub reference.Publication) (c *Citation, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("id", pub.ID).Msg("citation failed")
			c, err = nil, fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()

	idx, err := p.lib.Index(ctx)
	if err != nil {
		return nil, err
	}

	c = Build(p.enrich(pub), idx)
	p.logger.Debug().
		Str("id", pub.ID).
		Str("match", string(c.Match)).
		Str("key", c.Key).
		Msg("citation resolved")
	return c, nil
}

// Build resolves pub against idx, synthesizing an entry when nothing
// matches, and formats the result.
func Build(pub reference.Publication, idx *bibtex.Index) *Citation {
	entry, kind := entryFor(pub, idx)

	title := strings.TrimSpace(pub.Title)
	if title == "" {
		title = bibtex.PlainText(entry.Field("title"))
	}

	return &Citation{
		ID:     pub.ID,
		Title:  title,
		APA:    formatAPA(entry),
		BibTeX: entry.Text(),
		Key:    entry.Key(),
		Match:  kind,
	}
}

func entryFor(pub reference.Publication, idx *bibtex.Index) (bibtex.Entry, resolve.Kind) {
	if m, ok := resolve.Resolve(pub, idx); ok {
		return m.Entry, m.Kind
	}
	return bibtex.NewEntry(export.FromPublication(pub)), resolve.MatchSynthesized
}

// enrich fills a missing DOI or title from the local PDF. Failures are
// logged and ignored.
func (p *Presenter) enrich(pub reference.Publication) reference.Publication {
	if p.pdfs == nil || pub.PDF == "" || (pub.DOI != "" && pub.Title != "") {
		return pub
	}

	path, err := p.pdfs.ResolvePath(pub.PDF)
	if err != nil {
		p.logger.Debug().Err(err).Str("id", pub.ID).Msg("skipping PDF metadata")
		return pub
	}
	meta, err := pdf.Extract(path)
	if err != nil {
		p.logger.Warn().Err(err).Str("pdf", path).Msg("reading PDF metadata")
		return pub
	}

	if pub.DOI == "" && meta.DOI != "" {
		pub.DOI = meta.DOI
		p.logger.Info().Str("id", pub.ID).Str("doi", meta.DOI).Msg("DOI taken from PDF")
	}
	if pub.Title == "" && meta.Title != "" {
		pub.Title = meta.Title
	}
	return pub
}

// Filename is the download name for pub's BibTeX: "<id>.bib", or
// "citation.bib" without an id.
func Filename(pub reference.Publication) string {
	id := strings.TrimSpace(pub.ID)
	id = strings.NewReplacer("/", "-", `\`, "-").Replace(id)
	if id == "" || id == "." || id == ".." {
		id = "citation"
	}
	return id + ".bib"
}

// Copy puts text on the clipboard.
func (p *Presenter) Copy(text string) error {
	if err := p.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying citation: %w", err)
	}
	return nil
}

// Download writes the citation's BibTeX to dir and returns the file path.
func (p *Presenter) Download(c *Citation, dir string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: no citation", ErrUnexpected)
	}
	path, err := export.WriteBibFile(dir, Filename(reference.Publication{ID: c.ID}), c.BibTeX)
	if err != nil {
		return "", err
	}
	p.logger.Debug().Str("path", filepath.Clean(path)).Msg("citation saved")
	return path, nil
}
