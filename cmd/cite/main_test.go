package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/scholarsite/citekit/internal/bibtex"
	"github.com/scholarsite/citekit/internal/config"
	"github.com/scholarsite/citekit/internal/content"
	"github.com/scholarsite/citekit/internal/library"
	"github.com/scholarsite/citekit/internal/storage"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{fmt.Errorf("loading: %w", library.ErrUnavailable), ExitUnavailable},
		{fmt.Errorf("x.bib: %w", library.ErrMalformed), ExitDataError},
		{fmt.Errorf("%w: bad json", content.ErrInvalid), ExitDataError},
		{fmt.Errorf("%w: colour", config.ErrUnknownKey), ExitConfigError},
		{errors.New("boom"), ExitError},
	}

	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title here", 10, "a longe..."},
		{"Études über Eis", 8, "Étude..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.s, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestStdinPrompter(t *testing.T) {
	var out bytes.Buffer
	p := newStdinPrompter(strings.NewReader("  \"refs.bib\"  \n\n"), &out)

	path, ok, err := p.PromptFile(context.Background())
	if err != nil || !ok {
		t.Fatalf("PromptFile() = %q, %v, %v", path, ok, err)
	}
	if path != "refs.bib" {
		t.Errorf("path = %q, want refs.bib", path)
	}
	if !strings.Contains(out.String(), ".bib file") {
		t.Errorf("prompt not written: %q", out.String())
	}

	// Empty line declines.
	if _, ok, err := p.PromptFile(context.Background()); ok || err != nil {
		t.Errorf("empty line: ok = %v, err = %v", ok, err)
	}
	// End of input declines.
	if _, ok, err := p.PromptFile(context.Background()); ok || err != nil {
		t.Errorf("EOF: ok = %v, err = %v", ok, err)
	}

	p.Alert("unbalanced braces")
	if !strings.Contains(out.String(), "unbalanced braces") {
		t.Errorf("alert not written: %q", out.String())
	}
}

func TestStdinPrompter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newStdinPrompter(strings.NewReader("refs.bib\n"), &bytes.Buffer{})
	if _, _, err := p.PromptFile(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("PromptFile() error = %v, want context.Canceled", err)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    zerolog.Level
	}{
		{"", false, zerolog.WarnLevel},
		{"info", false, zerolog.InfoLevel},
		{"nonsense", false, zerolog.WarnLevel},
		{"error", true, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		if got := newLogger(tt.level, tt.verbose).GetLevel(); got != tt.want {
			t.Errorf("newLogger(%q, %v) level = %v, want %v", tt.level, tt.verbose, got, tt.want)
		}
	}
}

func TestSearchQuery(t *testing.T) {
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	bib := `@article{osborn2020, title = {Land surface air temperature}, author = {Osborn, Tim}, year = {2020}}
@article{other, title = {Osborn revisited}, author = {Doe, Jane}, year = {2021}}`
	if _, err := db.RebuildFromIndex(bibtex.BuildIndex(bib), "h"); err != nil {
		t.Fatal(err)
	}

	searchLimit = 10
	tests := []struct {
		query string
		want  int
	}{
		{"osborn", 2},
		{"author:osborn", 1},
		{"title:osborn", 1},
		{"key:other", 1},
	}

	for _, tt := range tests {
		hits, err := searchQuery(db, tt.query)
		if err != nil {
			t.Fatalf("searchQuery(%q) error = %v", tt.query, err)
		}
		if len(hits) != tt.want {
			t.Errorf("searchQuery(%q) = %d hits, want %d", tt.query, len(hits), tt.want)
		}
	}
}
