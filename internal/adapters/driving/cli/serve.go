package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve question answering over HTTP",
	Long: `Starts an HTTP server exposing POST /query. The request body is
{"query": "..."} and the response is {"answer": "..."}. Runs until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured; set azure and qdrant in the config")
	}

	// Fail fast on bad credentials rather than on the first query
	if embedder != nil {
		if err := embedder.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("embedding service unreachable: %w", err)
		}
	}
	if llm != nil {
		if err := llm.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("language model unreachable: %w", err)
		}
	}
	if documentManager != nil {
		if err := documentManager.Init(cmd.Context()); err != nil {
			return fmt.Errorf("preparing collection: %w", err)
		}
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	server := httpapi.NewServer(answerService, addr)
	if err := server.Start(); err != nil {
		return err
	}

	cmd.Printf("Query server listening on %s. Press Ctrl+C to stop.\n", server.Addr())

	<-cmd.Context().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
