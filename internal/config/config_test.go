package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContentFilePath(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{ContentPath: "/x/content.json", SiteDir: "/site"}, "/x/content.json"},
		{Config{SiteDir: "/site"}, filepath.Join("/site", "content.json")},
		{Config{}, "content.json"},
	}

	for _, tt := range tests {
		if got := tt.cfg.ContentFilePath(); got != tt.want {
			t.Errorf("ContentFilePath() = %q, want %q", got, tt.want)
		}
	}
}

func TestPDFDir(t *testing.T) {
	if got := (&Config{SiteDir: "/site"}).PDFDir(); got != "/site" {
		t.Errorf("PDFDir() = %q, want site dir", got)
	}
	if got := (&Config{SiteDir: "/site", PDFRoot: "/pdfs"}).PDFDir(); got != "/pdfs" {
		t.Errorf("PDFDir() = %q, want pdf root", got)
	}
}

func TestDBPath(t *testing.T) {
	if got := (&Config{CacheDir: "/cache"}).DBPath(); got != filepath.Join("/cache", "citations.db") {
		t.Errorf("DBPath() = %q", got)
	}
	if got := (&Config{}).DBPath(); !strings.HasSuffix(got, filepath.Join("cite", "citations.db")) {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{}).Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
	if err := (&Config{BaseURL: "https://example.org", PDFReader: "evince", LogLevel: "error"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	for _, cfg := range []Config{{BaseURL: "example.org"}, {PDFReader: "x"}, {LogLevel: "x"}} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", cfg)
		}
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateDir(""); err != nil {
		t.Errorf("ValidateDir(\"\") error = %v", err)
	}
	if err := ValidateDir(dir); err != nil {
		t.Errorf("ValidateDir(dir) error = %v", err)
	}
	if err := ValidateDir(file); err == nil {
		t.Error("ValidateDir(file) should fail")
	}
	if err := ValidateDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("ValidateDir(missing) should fail")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/site", filepath.Join(home, "site")},
		{"/abs/path", "/abs/path"},
		{"rel", "rel"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
