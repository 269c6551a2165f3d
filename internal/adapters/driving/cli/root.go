// Package cli implements the docask command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/config"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/core/services"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services. Commands nil-check what they need, so commands
// like version work without any backend configured.
var (
	cfg             config.Config
	ingestService   driving.IngestService
	retrieveService driving.RetrieveService
	answerService   driving.AnswerService
	documentManager *services.DocumentManager
	ledger          driven.IngestionLedger
	embedder        driven.EmbeddingService
	llm             driven.LLMService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docask",
	Short: "Ask questions about your PDF documents",
	Long: `docask ingests PDF documents into a vector knowledge base and
answers natural-language questions about them, with source citations.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Config          config.Config
	Ingest          driving.IngestService
	Retrieve        driving.RetrieveService
	Answer          driving.AnswerService
	DocumentManager *services.DocumentManager
	Ledger          driven.IngestionLedger
	Embedder        driven.EmbeddingService
	LLM             driven.LLMService
}

// Setup injects the wired services before Execute runs.
func Setup(s Services) {
	cfg = s.Config
	ingestService = s.Ingest
	retrieveService = s.Retrieve
	answerService = s.Answer
	documentManager = s.DocumentManager
	ledger = s.Ledger
	embedder = s.Embedder
	llm = s.LLM
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context, so
// long-running commands stop on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
