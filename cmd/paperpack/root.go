// Package main provides the paperpack CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperpack/paperpack/internal/config"
	"github.com/paperpack/paperpack/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "paperpack",
	Short: "Priority-ordered chunking for source trees and research papers",
	Long: `paperpack turns a source tree or a research paper into
priority-ordered, token-budget-limited chunks plus a manifest, so a
context-limited consumer can read the important parts first.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// rootFlags holds flags shared by the processing commands
type rootFlags struct {
	configFile string
	budget     int
	outputDir  string
}

var rootOpts rootFlags

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().IntVarP(&rootOpts.budget, "budget", "b", 0, "Max estimated tokens per chunk (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&rootOpts.outputDir, "output", "o", "", "Output directory (overrides config)")
}

// loadConfig resolves the effective configuration: file (or defaults),
// then flag overrides, then validation.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if rootOpts.configFile != "" {
		cfg, err = config.Load(rootOpts.configFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if rootOpts.budget > 0 {
		cfg.Budget = rootOpts.budget
	}
	if rootOpts.outputDir != "" {
		cfg.OutputDir = rootOpts.outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
