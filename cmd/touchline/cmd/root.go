// Package cmd implements the CLI commands for touchline.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/touchline-tv/touchline/internal/config"
	"github.com/touchline-tv/touchline/internal/version"
)

// cfgFile holds the config file path from the CLI flag.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "touchline",
	Short:   "IPTV lineup, guide, and match highlight service",
	Version: version.Short(),
	Long: `touchline builds a deduplicated channel lineup from M3U playlists,
merges XMLTV guides into a now/next program resolver, and cross-references
the day's football fixtures against the lineup so a match on TV is one
click away.`,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	// These flags are applied on top of the loaded config only when
	// explicitly set, preserving flag > env > file > default precedence.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ./configs, /etc/touchline, $HOME/.touchline)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// loadConfig loads the configuration and applies explicit CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if level, ok := stringOverride(rootCmd.PersistentFlags(), "log-level"); ok {
		cfg.Logging.Level = strings.ToLower(level)
	}
	if format, ok := stringOverride(rootCmd.PersistentFlags(), "log-format"); ok {
		cfg.Logging.Format = strings.ToLower(format)
	}

	return cfg, nil
}

// stringOverride returns the flag's value and whether it was explicitly set
// on the command line.
func stringOverride(fs *pflag.FlagSet, name string) (string, bool) {
	if !fs.Changed(name) {
		return "", false
	}
	value, _ := fs.GetString(name)
	return value, true
}
