package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsite/citekit/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values in ~/.config/cite/config.yml.

Usage:
  cite config                          # Show all config
  cite config base-url                 # Get specific value
  cite config base-url https://x.org   # Set value

Keys:
  base_url        Site URL the bibliography is fetched from
  site_dir        Local checkout of the site
  content_path    content.json (default <site_dir>/content.json)
  bib_candidates  Comma-separated resource names tried in order
  pdf_root        Root for publication pdf links (default site_dir)
  pdf_reader      PDF reader (system, skim, preview, zathura, evince, okular)
  cache_dir       Search database location
  download_dir    Where downloaded .bib files go
  log_level       trace, debug, info, warn, error`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// Read the file itself so environment and flag overrides are never saved.
	path := config.GlobalConfigPath()
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string)
		for _, key := range config.Keys() {
			values[key], _ = fileCfg.Get(key)
		}
		if humanOutput {
			for _, key := range config.Keys() {
				fmt.Printf("%-15s %s\n", key+":", values[key])
			}
		} else {
			outputJSON(values)
		}
		return nil
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := fileCfg.Get(key)
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	if err := fileCfg.Set(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := fileCfg.Save(path); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}
	config.ResetGlobalConfigCache()

	value, _ := fileCfg.Get(key)
	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}
