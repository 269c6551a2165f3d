package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest PDF files into the knowledge base",
	Long: `Extracts text from each PDF, splits it into overlapping chunks,
embeds the chunks and writes them to the vector index. A file that
fails is skipped; the remaining files are still ingested.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured; set azure and qdrant in the config")
	}

	// First ingest into a fresh index creates the collection
	if documentManager != nil {
		if err := documentManager.Init(cmd.Context()); err != nil {
			return fmt.Errorf("preparing collection: %w", err)
		}
	}

	reports, err := ingestService.IngestFiles(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	var failed int
	for _, report := range reports {
		if report.Err != nil {
			failed++
			cmd.Printf("  FAIL %s: %v\n", report.Path, report.Err)
			continue
		}
		cmd.Printf("  OK   %s (%d chunks, id %s)\n", report.Path, report.Chunks, report.IngestionID)
	}

	cmd.Printf("Ingested %d of %d files.\n", len(reports)-failed, len(reports))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}
