package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Long:  `Lists every recorded ingestion with its id, source file and chunk count.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if ledger == nil {
		return errors.New("ingestion ledger not configured")
	}

	records, err := ledger.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing ingestions: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for _, rec := range records {
		title := rec.Title
		if title == "" {
			title = rec.SourceFile
		}
		cmd.Printf("  %s  %s (%d chunks, ingested %s)\n",
			rec.ID, title, len(rec.PointIDs), rec.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
