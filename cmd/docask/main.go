// Command docask ingests PDF documents into a vector knowledge base
// and answers questions about them with source citations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	embeddingazure "github.com/custodia-labs/docask-cli/internal/adapters/driven/embedding/azure"
	"github.com/custodia-labs/docask-cli/internal/adapters/driven/extractor/pdf"
	llmazure "github.com/custodia-labs/docask-cli/internal/adapters/driven/llm/azure"
	"github.com/custodia-labs/docask-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docask-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/custodia-labs/docask-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docask-cli/internal/config"
	"github.com/custodia-labs/docask-cli/internal/core/services"
	"github.com/custodia-labs/docask-cli/internal/logger"
	"github.com/custodia-labs/docask-cli/internal/splitter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wired, cleanup, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docask: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	cli.Setup(wired)
	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// wire builds the service graph from the configuration. Commands that
// only touch local state (version, list) work without Azure or Qdrant
// configured; the remote-backed services stay nil until both are set.
func wire() (cli.Services, func(), error) {
	configPath, err := config.DefaultPath()
	if err != nil {
		return cli.Services{}, nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Services{}, nil, err
	}

	wired := cli.Services{Config: cfg}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	ledger, err := sqlite.NewStore("")
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening ingestion ledger: %w", err)
	}
	closers = append(closers, func() { ledger.Close() })
	wired.Ledger = ledger

	if cfg.Azure.Endpoint == "" || cfg.Azure.APIKey == "" {
		logger.Debug("azure endpoint or api key missing, remote services not wired")
		return wired, cleanup, nil
	}

	embedder, err := embeddingazure.NewEmbeddingService(embeddingazure.Config{
		Endpoint:   cfg.Azure.Endpoint,
		APIKey:     cfg.Azure.APIKey,
		Deployment: cfg.Azure.EmbeddingDeployment,
		APIVersion: cfg.Azure.APIVersion,
	})
	if err != nil {
		cleanup()
		return cli.Services{}, nil, fmt.Errorf("creating embedding service: %w", err)
	}
	closers = append(closers, func() { embedder.Close() })

	llm, err := llmazure.NewLLMService(llmazure.Config{
		Endpoint:   cfg.Azure.Endpoint,
		APIKey:     cfg.Azure.APIKey,
		Deployment: cfg.Azure.ChatDeployment,
		APIVersion: cfg.Azure.APIVersion,
	})
	if err != nil {
		cleanup()
		return cli.Services{}, nil, fmt.Errorf("creating llm service: %w", err)
	}
	closers = append(closers, func() { llm.Close() })

	store, err := qdrant.NewStore(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
	})
	if err != nil {
		cleanup()
		return cli.Services{}, nil, fmt.Errorf("creating vector store: %w", err)
	}
	closers = append(closers, func() { store.Close() })

	split := splitter.New(
		splitter.WithChunkSize(cfg.Chunking.ChunkSize),
		splitter.WithOverlap(cfg.Chunking.ChunkOverlap),
	)

	manager := services.NewDocumentManager(split, embedder, store)
	tool := services.NewRetrievalTool(manager, services.WithTopK(cfg.Retrieval.TopK))
	agent := services.NewAgent(llm, tool)
	runner := services.NewIngestRunner(pdf.New(), manager, ledger)

	wired.Ingest = runner
	wired.Retrieve = manager
	wired.Answer = agent
	wired.DocumentManager = manager
	wired.Embedder = embedder
	wired.LLM = llm

	return wired, cleanup, nil
}
