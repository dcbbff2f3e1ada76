// Package main provides the cite CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/config"
	"github.com/scholarsite/citekit/internal/library"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	humanOutput bool
	verbose     bool
	bibFile     string
	contentFile string
	baseURL     string
	siteDir     string
)

// Set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger = zerolog.Nop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cite",
	Short: "APA and BibTeX citations for a publications site",
	Long: `cite resolves the publications listed in a site's content.json against
the site bibliography and produces APA references and BibTeX entries.

The bibliography is fetched from the site (citations.normalized.bib, then
citations.bib) or read from a local checkout. All commands output JSON by
default; use --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Load .env file if present (for CITE_* overrides)
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug messages to stderr")
	flags.StringVar(&bibFile, "bib-file", "", "Read the bibliography from a local file instead of the site")
	flags.StringVar(&contentFile, "content", "", "Path to content.json (overrides content_path)")
	flags.StringVar(&baseURL, "base-url", "", "Site URL to fetch the bibliography from (overrides base_url)")
	flags.StringVar(&siteDir, "site-dir", "", "Local site checkout (overrides site_dir)")
	rootCmd.Version = Version
}

// setup loads configuration, applies flag overrides, and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	c := *loaded

	if baseURL != "" {
		c.BaseURL = baseURL
	}
	if siteDir != "" {
		c.SiteDir = config.ExpandPath(siteDir)
	}
	if contentFile != "" {
		c.ContentPath = config.ExpandPath(contentFile)
	}
	// config must stay usable to repair an invalid file.
	if cmd != configCmd {
		if err := c.Validate(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	cfg = &c
	logger = newLogger(cfg.LogLevel, verbose)
	return nil
}

// newLogger writes console-formatted logs to stderr. The default level is warn.
func newLogger(level string, verbose bool) zerolog.Logger {
	lvl := zerolog.WarnLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(lvl)
}

// newLibrary builds the bibliography loader from the current configuration.
// The site URL wins over a local checkout; --bib-file skips both.
func newLibrary() *library.Library {
	opts := []library.Option{
		library.WithLogger(logger),
		library.WithCandidates(cfg.BibCandidates...),
	}

	switch {
	case bibFile != "":
		opts = append(opts, library.WithFile(config.ExpandPath(bibFile)))
	case cfg.BaseURL != "":
		opts = append(opts, library.WithSource(library.NewHTTPSource(cfg.BaseURL)))
	case cfg.SiteDir != "":
		opts = append(opts, library.WithSource(library.DirSource{Dir: cfg.SiteDir}))
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		opts = append(opts, library.WithPrompter(newStdinPrompter(os.Stdin, os.Stderr)))
	}

	return library.New(opts...)
}
