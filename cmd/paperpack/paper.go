// Package main provides the paperpack CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperpack/paperpack/internal/fetch"
	"github.com/paperpack/paperpack/internal/packer"
	"github.com/paperpack/paperpack/internal/paper"
	"github.com/paperpack/paperpack/internal/writer"
	"github.com/paperpack/paperpack/pkg/types"
)

// paperFlags holds the flags for the paper command
type paperFlags struct {
	keep bool
}

var paperOpts paperFlags

// paperCmd represents the paper command
var paperCmd = &cobra.Command{
	Use:   "paper <file|url>",
	Short: "Chunk a research paper by section priority",
	Long: `Read a paper (PDF, markdown, or plain text), split it into
sections, classify each section's priority, and pack sections into
budget-limited chunks written alongside a manifest.json.

arxiv.org and openreview.net URLs are downloaded first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := args[0]
		if isURL(path) {
			dir := cfg.OutputDir
			if !paperOpts.keep {
				dir, err = os.MkdirTemp("", "paperpack-")
				if err != nil {
					return err
				}
				defer func() { _ = os.RemoveAll(dir) }()
			}
			path, err = fetch.New().Download(cmd.Context(), args[0], dir)
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "downloaded %s\n", path)
		}

		doc, err := paper.ReadDocument(path)
		if err != nil {
			return err
		}

		res, err := paper.New().Run(doc, packer.Options{
			Budget: cfg.Budget,
			Order:  cfg.PackOrder(),
		})
		if err != nil && !errors.Is(err, types.ErrNoInputs) {
			return err
		}
		if errors.Is(err, types.ErrNoInputs) {
			fmt.Fprintf(cmd.ErrOrStderr(), "document %s is empty\n", doc.ID)
		}

		if err := writer.New(cfg.OutputDir).WriteRun(res.Manifest, res.Chunks); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d sections from %s\n", len(res.Units), doc.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d chunks to %s\n", len(res.Chunks), cfg.OutputDir)
		for tier, count := range res.Manifest.TierDistribution {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", tier, count)
		}
		return nil
	},
}

// isURL reports whether the argument is a remote paper reference.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func init() {
	rootCmd.AddCommand(paperCmd)

	paperCmd.Flags().BoolVar(&paperOpts.keep, "keep-download", false, "Keep the downloaded paper in the output directory")
}
