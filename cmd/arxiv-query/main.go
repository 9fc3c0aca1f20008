// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-query CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the settings resolved from defaults, config file and
// environment before any subcommand runs.
var cfg types.Config

// rootCmd is the base command for the arxiv-query CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-query",
	Short: "Build and run arXiv API queries",
	Long: `arxiv-query composes structured queries for the arXiv API from field
predicates, boolean operators, groups and submission date ranges, runs them,
and prints the decoded results.

Settings are read from arxiv-query.yaml in the current directory or
~/.config/arxiv-query/, and from ARXIV_QUERY_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		initLogging(cmd.ErrOrStderr(), cfg.Log)
		if f := viper.ConfigFileUsed(); f != "" {
			slog.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-query.yaml or ~/.config/arxiv-query/arxiv-query.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-query")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-query"))
		}
	}

	setDefaults()
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("ARXIV_QUERY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// setDefaults registers every config key so that environment variables
// are picked up by Unmarshal even without a config file.
func setDefaults() {
	d := types.DefaultClientConfig()
	viper.SetDefault("endpoint", d.Endpoint)
	viper.SetDefault("timeout", d.Timeout)
	viper.SetDefault("user_agent", d.UserAgent)
	viper.SetDefault("max_results", d.MaxResults)
	viper.SetDefault("sort_by", d.SortBy)
	viper.SetDefault("sort_order", d.SortOrder)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
}

func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
