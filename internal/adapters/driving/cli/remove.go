package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [ingestion-id]",
	Short: "Remove an ingested document",
	Long: `Deletes the vector index points written by one ingestion, then drops
its ledger entry. The points are deleted first so a failure never
leaves orphaned vectors behind a missing ledger entry.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	if ledger == nil {
		return errors.New("ingestion ledger not configured")
	}
	if documentManager == nil {
		return errors.New("document manager not configured; set azure and qdrant in the config")
	}

	id := args[0]
	ctx := cmd.Context()

	rec, err := ledger.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up ingestion %s: %w", id, err)
	}

	if err := documentManager.DeletePoints(ctx, rec.PointIDs); err != nil {
		return fmt.Errorf("deleting points for %s: %w", id, err)
	}

	if err := ledger.Delete(ctx, id); err != nil {
		return fmt.Errorf("removing ledger entry %s: %w", id, err)
	}

	cmd.Printf("Removed %s (%s, %d chunks).\n", id, rec.SourceFile, len(rec.PointIDs))
	return nil
}
