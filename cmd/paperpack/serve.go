// Package main provides the paperpack CLI application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperpack/paperpack/internal/mcp"
	"github.com/paperpack/paperpack/internal/storage"
	"github.com/paperpack/paperpack/pkg/version"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Start an MCP server exposing the chunking pipelines over stdio.
Runs are persisted to the configured database so clients can request
chunks selectively across sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// stdout carries the MCP protocol; everything else goes to stderr
		log.SetOutput(os.Stderr)
		log.Printf("paperpack MCP server v%s starting...", version.String())
		log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

		server, err := mcp.NewServer(cfg.DBPath, cfg.Budget)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			log.Println("MCP server ready, listening on stdio...")
			errChan <- server.Serve(ctx)
		}()

		select {
		case sig := <-sigChan:
			log.Printf("Received signal %v, shutting down...", sig)
			cancel()
			return nil
		case err := <-errChan:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
