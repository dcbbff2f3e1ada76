package library

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit paces candidate requests against the site host.
	DefaultRateLimit = 5.0

	// maxBibSize bounds a fetched bibliography.
	maxBibSize = 32 << 20
)

// Source fetches a named bibliography resource.
type Source interface {
	// Fetch returns the text of the named resource.
	Fetch(ctx context.Context, name string) (string, error)
	// Location describes where name would be read from, for logs and output.
	Location(name string) string
}

// HTTPSource reads bibliography resources relative to a site base URL.
// No request timeout is imposed; cancel ctx to abandon a fetch.
type HTTPSource struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = hc
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(perSecond float64) HTTPOption {
	return func(s *HTTPSource) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the URL of name.
func (s *HTTPSource) Location(name string) string {
	u, err := url.JoinPath(s.baseURL, name)
	if err != nil {
		return s.baseURL + "/" + name
	}
	return u
}

// Fetch GETs the named resource. Any non-200 status is an error.
func (s *HTTPSource) Fetch(ctx context.Context, name string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	loc := s.Location(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, application/x-bibtex, */*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", loc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: loc, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBibSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", loc, err)
	}
	return string(body), nil
}

// StatusError reports a non-200 response for a bibliography resource.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

// DirSource reads bibliography resources from a local site directory.
type DirSource struct {
	Dir string
}

// Location returns the file path of name.
func (s DirSource) Location(name string) string {
	return filepath.Join(s.Dir, name)
}

// Fetch reads the named file.
func (s DirSource) Fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Location(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
