// Package main provides the paperpack CLI application.
package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperpack/paperpack/internal/analyzer"
	"github.com/paperpack/paperpack/internal/writer"
	"github.com/paperpack/paperpack/pkg/types"
)

// codeFlags holds the flags for the code command
type codeFlags struct {
	order        string
	mode         string
	targets      string
	includeTests bool
	workers      int
}

var codeOpts codeFlags

// codeCmd represents the code command
var codeCmd = &cobra.Command{
	Use:   "code <dir>",
	Short: "Chunk a Go source tree by file priority",
	Long: `Walk a Go source tree, classify files into priority tiers,
extract top-level declarations, and pack them into budget-limited
chunks written alongside a manifest.json.

Modes:
  full      chunk files and write chunk files plus manifest (default)
  skeleton  print a structure-only view, no chunk output`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		rules, err := cfg.Ruleset()
		if err != nil {
			return err
		}

		acfg := &analyzer.Config{
			Budget:       cfg.Budget,
			Order:        cfg.PackOrder(),
			IncludeTests: codeOpts.includeTests || cfg.IncludeTests,
			Workers:      cfg.Workers,
		}
		if codeOpts.workers > 0 {
			acfg.Workers = codeOpts.workers
		}
		if codeOpts.order != "" {
			cfg.Order = codeOpts.order
			if err := cfg.Validate(); err != nil {
				return err
			}
			acfg.Order = cfg.PackOrder()
		}
		if codeOpts.targets != "" {
			acfg.Targets = strings.Split(codeOpts.targets, ",")
		}

		res, err := analyzer.NewWithRules(rules).AnalyzeDir(cmd.Context(), root, acfg)
		if err != nil && !errors.Is(err, types.ErrNoInputs) {
			return err
		}
		if errors.Is(err, types.ErrNoInputs) {
			fmt.Fprintf(cmd.ErrOrStderr(), "no eligible files under %s\n", root)
		}

		if codeOpts.mode == "skeleton" {
			fmt.Fprint(cmd.OutOrStdout(), analyzer.Skeleton(res.Files))
			return nil
		}

		if err := writer.New(cfg.OutputDir).WriteRun(res.Manifest, res.Chunks); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d files (%d skipped, %d failed)\n",
			res.Stats.FilesParsed, res.Stats.FilesSkipped, res.Stats.FilesFailed)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks to %s in %s\n",
			res.Stats.ChunksCreated, cfg.OutputDir, res.Stats.Duration.Round(time.Millisecond))
		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(codeCmd)

	codeCmd.Flags().StringVar(&codeOpts.order, "order", "", "Packing order: priority or natural (overrides config)")
	codeCmd.Flags().StringVar(&codeOpts.mode, "mode", "full", "Analysis mode: full or skeleton")
	codeCmd.Flags().StringVar(&codeOpts.targets, "targets", "", "Comma-separated declaration names to extract")
	codeCmd.Flags().BoolVar(&codeOpts.includeTests, "include-tests", false, "Include *_test.go files")
	codeCmd.Flags().IntVar(&codeOpts.workers, "workers", 0, "Parallel extraction workers (default NumCPU)")
}
