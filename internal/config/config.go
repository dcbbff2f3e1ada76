package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
)

const (
	// ContentFile is the content document name inside the site directory.
	ContentFile = "content.json"
	// DBFile is the search database name inside the cache directory.
	DBFile = "citations.db"
)

// ValidReaders lists the supported PDF reader values.
var ValidReaders = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// ContentFilePath returns content_path, else <site_dir>/content.json, else
// content.json in the working directory.
func (c *Config) ContentFilePath() string {
	if c.ContentPath != "" {
		return c.ContentPath
	}
	if c.SiteDir != "" {
		return filepath.Join(c.SiteDir, ContentFile)
	}
	return ContentFile
}

// PDFDir returns the directory publication pdf links are relative to.
func (c *Config) PDFDir() string {
	if c.PDFRoot != "" {
		return c.PDFRoot
	}
	return c.SiteDir
}

// CachePath returns the cache directory, defaulting to the user cache dir.
func (c *Config) CachePath() string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), GlobalConfigDir)
	}
	return filepath.Join(dir, GlobalConfigDir)
}

// DBPath returns the path of the search database.
func (c *Config) DBPath() string {
	return filepath.Join(c.CachePath(), DBFile)
}

// Validate checks every value that has a fixed format.
func (c *Config) Validate() error {
	if err := ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if err := ValidatePDFReader(c.PDFReader); err != nil {
		return err
	}
	return ValidateLogLevel(c.LogLevel)
}

// ValidateBaseURL requires an absolute http or https URL.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return nil // Empty is allowed (not yet configured)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url: %s (want http(s)://host/...)", raw)
	}
	return nil
}

// ValidateDir checks that the path exists and is a directory.
func ValidateDir(path string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}

// ValidatePDFReader checks that the reader value is valid.
func ValidatePDFReader(reader string) error {
	if reader == "" || slices.Contains(ValidReaders, reader) {
		return nil
	}
	return fmt.Errorf("invalid pdf_reader: %s (valid: %v)", reader, ValidReaders)
}

// ValidateLogLevel accepts zerolog level names.
func ValidateLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid log_level: %s", level)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
