// Package main provides the paperpack CLI application.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperpack/paperpack/internal/storage"
	"github.com/paperpack/paperpack/pkg/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display detailed version information including build date, git commit, and SQLite driver.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Info()
		fmt.Printf("paperpack version: %s\n", info["version"])
		fmt.Printf("  build date: %s\n", info["buildDate"])
		fmt.Printf("  git commit: %s\n", info["gitCommit"])
		fmt.Printf("  build mode: %s (driver %s)\n", storage.BuildMode, storage.DriverName)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
