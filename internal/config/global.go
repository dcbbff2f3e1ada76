// Package config handles the cite tool's global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/cite/config.yml.
type Config struct {
	BaseURL       string   `yaml:"base_url,omitempty"`       // Site URL the bibliography is fetched from
	SiteDir       string   `yaml:"site_dir,omitempty"`       // Local checkout of the site
	ContentPath   string   `yaml:"content_path,omitempty"`   // content.json; defaults to <site_dir>/content.json
	BibCandidates []string `yaml:"bib_candidates,omitempty"` // Resource names tried in order
	PDFRoot       string   `yaml:"pdf_root,omitempty"`       // Root for publication pdf links; defaults to site_dir
	PDFReader     string   `yaml:"pdf_reader,omitempty"`     // system, skim, preview, zathura, evince, okular
	CacheDir      string   `yaml:"cache_dir,omitempty"`      // Search database location
	DownloadDir   string   `yaml:"download_dir,omitempty"`   // Where .bib downloads go
	LogLevel      string   `yaml:"log_level,omitempty"`      // zerolog level name
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "cite"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Environment variables that override the file.
const (
	EnvBaseURL  = "CITE_BASE_URL"
	EnvSiteDir  = "CITE_SITE_DIR"
	EnvContent  = "CITE_CONTENT"
	EnvPDFRoot  = "CITE_PDF_ROOT"
	EnvLogLevel = "CITE_LOG_LEVEL"
)

// ErrUnknownKey is returned by Get and Set for keys Config does not have.
var ErrUnknownKey = errors.New("unknown configuration key")

// globalConfigCache caches the loaded global config.
var globalConfigCache *Config

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cite/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. Returns an empty config (not an error) if the file
// doesn't exist.
func LoadGlobalConfig() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := LoadFile(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	globalConfigCache = cfg
	return cfg, nil
}

// LoadFile reads one config file without environment overrides.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	cfg.expand()
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&c.BaseURL, EnvBaseURL)
	set(&c.SiteDir, EnvSiteDir)
	set(&c.ContentPath, EnvContent)
	set(&c.PDFRoot, EnvPDFRoot)
	set(&c.LogLevel, EnvLogLevel)
	c.expand()
}

func (c *Config) expand() {
	c.SiteDir = ExpandPath(c.SiteDir)
	c.ContentPath = ExpandPath(c.ContentPath)
	c.PDFRoot = ExpandPath(c.PDFRoot)
	c.CacheDir = ExpandPath(c.CacheDir)
	c.DownloadDir = ExpandPath(c.DownloadDir)
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// fields maps config keys to their string fields. bib_candidates is handled
// separately because it is a list.
func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"base_url":     &c.BaseURL,
		"site_dir":     &c.SiteDir,
		"content_path": &c.ContentPath,
		"pdf_root":     &c.PDFRoot,
		"pdf_reader":   &c.PDFReader,
		"cache_dir":    &c.CacheDir,
		"download_dir": &c.DownloadDir,
		"log_level":    &c.LogLevel,
	}
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := []string{"bib_candidates"}
	for k := range (&Config{}).fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeKey accepts "pdf-root" as well as "pdf_root".
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// Get returns the value of key; lists are comma-joined.
func (c *Config) Get(key string) (string, error) {
	key = NormalizeKey(key)
	if key == "bib_candidates" {
		return strings.Join(c.BibCandidates, ","), nil
	}
	if p, ok := c.fields()[key]; ok {
		return *p, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set validates and stores value under key. Lists are comma-separated.
func (c *Config) Set(key, value string) error {
	key = NormalizeKey(key)
	value = strings.TrimSpace(value)

	if key == "bib_candidates" {
		var names []string
		for _, n := range strings.Split(value, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		c.BibCandidates = names
		return nil
	}

	p, ok := c.fields()[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch key {
	case "base_url":
		if err := ValidateBaseURL(value); err != nil {
			return err
		}
	case "pdf_reader":
		if err := ValidatePDFReader(value); err != nil {
			return err
		}
	case "log_level":
		if err := ValidateLogLevel(value); err != nil {
			return err
		}
	case "site_dir", "pdf_root":
		value = ExpandPath(value)
		if err := ValidateDir(value); err != nil {
			return err
		}
	case "content_path", "cache_dir", "download_dir":
		value = ExpandPath(value)
	}

	*p = value
	return nil
}
