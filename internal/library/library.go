// Package library loads the site bibliography once and memoizes its index.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/scholarsite/citekit/internal/bibtex"
)

// DefaultCandidates are the bibliography resources tried in order.
var DefaultCandidates = []string{"citations.normalized.bib", "citations.bib"}

var (
	// ErrUnavailable indicates no bibliography could be obtained.
	ErrUnavailable = errors.New("bibliography unavailable")

	// ErrMalformed indicates a user-supplied bibliography could not be parsed.
	ErrMalformed = errors.New("malformed bibliography")
)

// State tags the lifecycle of a Library.
type State int32

const (
	NotLoaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Prompter asks the user for a local bibliography file when no candidate
// resource can be read.
type Prompter interface {
	// PromptFile returns a file path, or ok=false if the user declined.
	PromptFile(ctx context.Context) (path string, ok bool, err error)
	// Alert shows a message about a rejected file.
	Alert(msg string)
}

// Library holds one bibliography for its lifetime. The first call to Index
// performs at most one fetch-or-prompt sequence; later calls reuse the
// result. A failed load leaves the Library NotLoaded so a later call may
// try again. There is no invalidation: a fresh load needs a new Library.
type Library struct {
	source     Source
	candidates []string
	prompter   Prompter
	file       string
	logger     zerolog.Logger

	mu     sync.Mutex
	state  atomic.Int32
	text   string
	origin string
	index  *bibtex.Index
}

// Option configures a Library.
type Option func(*Library)

// WithSource sets where candidate resources are fetched from.
func WithSource(s Source) Option {
	return func(l *Library) {
		l.source = s
	}
}

// WithCandidates overrides the candidate resource names.
func WithCandidates(names ...string) Option {
	return func(l *Library) {
		if len(names) > 0 {
			l.candidates = names
		}
	}
}

// WithPrompter sets the fallback used when no candidate can be read.
func WithPrompter(p Prompter) Option {
	return func(l *Library) {
		l.prompter = p
	}
}

// WithFile loads the bibliography from a local file and skips the source.
func WithFile(path string) Option {
	return func(l *Library) {
		l.file = path
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// New creates an unloaded Library.
func New(opts ...Option) *Library {
	l := &Library{
		candidates: DefaultCandidates,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current lifecycle state without blocking.
func (l *Library) State() State {
	return State(l.state.Load())
}

// Origin returns where the loaded text came from, or "" before loading.
func (l *Library) Origin() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origin
}

// Text returns the raw bibliography text, loading it if needed.
func (l *Library) Text(ctx context.Context) (string, error) {
	if _, err := l.Index(ctx); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text, nil
}

// Index returns the bibliography index, loading it on first use.
func (l *Library) Index(ctx context.Context) (*bibtex.Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.State() == Loaded {
		return l.index, nil
	}

	l.state.Store(int32(Loading))
	text, origin, err := l.load(ctx)
	if err != nil {
		l.state.Store(int32(NotLoaded))
		return nil, err
	}

	l.install(text, origin)
	return l.index, nil
}

// LoadText installs text as the bibliography unless one is already loaded.
// It reports ErrMalformed for text with unbalanced braces or no entries.
func (l *Library) LoadText(text, origin string) error {
	if _, err := parseStrict(text); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.State() == Loaded {
		return nil
	}
	l.install(text, origin)
	return nil
}

// install must be called with mu held.
func (l *Library) install(text, origin string) {
	l.text = text
	l.origin = origin
	l.index = bibtex.BuildIndex(text)
	l.state.Store(int32(Loaded))

	l.logger.Info().
		Str("origin", origin).
		Int("entries", l.index.Len()).
		Msg("bibliography loaded")
}

func (l *Library) load(ctx context.Context) (string, string, error) {
	if l.file != "" {
		text, err := readUserFile(l.file)
		if err != nil {
			return "", "", err
		}
		return text, l.file, nil
	}

	if l.source != nil {
		for _, name := range l.candidates {
			loc := l.source.Location(name)
			text, err := l.source.Fetch(ctx, name)
			if err != nil {
				if ctx.Err() != nil {
					return "", "", ctx.Err()
				}
				l.logger.Warn().Err(err).Str("candidate", loc).Msg("bibliography candidate unavailable")
				continue
			}
			if len(bibtex.Split(text)) == 0 {
				l.logger.Warn().Str("candidate", loc).Msg("bibliography candidate has no entries")
				continue
			}
			if _, err := bibtex.SplitStrict(text); err != nil {
				l.logger.Warn().Err(err).Str("candidate", loc).Msg("bibliography truncated")
			}
			return text, loc, nil
		}
	}

	return l.promptForFile(ctx)
}

// promptForFile asks for a local file until one parses or the user declines.
func (l *Library) promptForFile(ctx context.Context) (string, string, error) {
	if l.prompter == nil {
		return "", "", fmt.Errorf("%w: no candidate could be read", ErrUnavailable)
	}

	for {
		path, ok, err := l.prompter.PromptFile(ctx)
		if err != nil {
			return "", "", fmt.Errorf("prompting for bibliography: %w", err)
		}
		if !ok {
			return "", "", fmt.Errorf("%w: no file selected", ErrUnavailable)
		}

		text, err := readUserFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("file", path).Msg("bibliography file rejected")
			l.prompter.Alert(err.Error())
			continue
		}
		return text, path, nil
	}
}

func readUserFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading bibliography file: %w", err)
	}
	text := string(data)
	if _, err := parseStrict(text); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// parseStrict rejects text with unbalanced braces or no entries.
func parseStrict(text string) ([]bibtex.Entry, error) {
	entries, err := bibtex.SplitStrict(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries found", ErrMalformed)
	}
	return entries, nil
}
