package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchFile  string
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the knowledge base directly",
	Long: `Performs a similarity search against the vector index and prints the
matching passages. This is the same retrieval the answer agent uses,
without the language model on top.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of passages")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output passages as JSON")
	searchCmd.Flags().StringVar(&searchFile, "file", "", "restrict results to one source file")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieveService == nil {
		return errors.New("retrieve service not configured; set azure and qdrant in the config")
	}

	var filter domain.Filter
	if searchFile != "" {
		filter = domain.Filter{domain.PayloadSourceFile: searchFile}
	}

	results, err := retrieveService.Retrieve(cmd.Context(), args[0], searchLimit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchText(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	type passage struct {
		Content    string  `json:"content"`
		Score      float64 `json:"score"`
		SourceFile string  `json:"source_file"`
		Title      string  `json:"title,omitempty"`
		ChunkIndex int     `json:"chunk_index"`
	}
	passages := make([]passage, len(results))
	for i := range results {
		passages[i] = passage{
			Content:    results[i].Payload.Content,
			Score:      results[i].Score,
			SourceFile: results[i].Payload.Metadata.SourceFile,
			Title:      results[i].Payload.Metadata.Title,
			ChunkIndex: results[i].Payload.ChunkIndex,
		}
	}

	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal passages: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.QueryResult) error {
	if len(results) == 0 {
		cmd.Println("No passages found.")
		return nil
	}

	cmd.Println("Passages:")
	cmd.Println()
	for i := range results {
		meta := results[i].Payload.Metadata
		cmd.Printf("  [%d] %s, chunk %d (%.2f)\n",
			i+1, meta.SourceFile, results[i].Payload.ChunkIndex, results[i].Score)
		if meta.Title != "" {
			cmd.Printf("      Title: %s\n", meta.Title)
		}
		cmd.Printf("      %s\n", snippet(results[i].Payload.Content, 200))
		cmd.Println()
	}
	return nil
}

// snippet truncates content for terminal display, never cutting a
// multi-byte character in half.
func snippet(content string, max int) string {
	if len(content) <= max {
		return content
	}
	for max > 0 && !utf8.RuneStart(content[max]) {
		max--
	}
	return content[:max] + "..."
}
