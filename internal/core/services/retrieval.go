package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// ToolName is the name the model invokes the retrieval tool by.
const ToolName = "search_knowledge_base"

// toolDescription tells the model what the retrieval tool does.
const toolDescription = "Search and retrieve information from the knowledge base with accurate citations."

// SearchInput is the typed input of the retrieval tool. The content is
// the search phrase the model chooses to issue; it may differ from the
// user's literal question.
type SearchInput struct {
	Content string `json:"content"`
}

// RetrievalTool exposes passage retrieval as a callable tool. It is
// the only boundary between the language model and the vector store:
// the model never sees raw vectors or collection internals.
type RetrievalTool struct {
	retriever driving.RetrieveService
	topK      int
}

// RetrievalToolOption configures the retrieval tool.
type RetrievalToolOption func(*RetrievalTool)

// WithTopK sets how many passages each search returns.
func WithTopK(topK int) RetrievalToolOption {
	return func(t *RetrievalTool) {
		if topK > 0 {
			t.topK = topK
		}
	}
}

// NewRetrievalTool creates a retrieval tool over the given retriever.
func NewRetrievalTool(retriever driving.RetrieveService, opts ...RetrievalToolOption) *RetrievalTool {
	t := &RetrievalTool{
		retriever: retriever,
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Definition returns the tool definition advertised to the model.
func (t *RetrievalTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        ToolName,
		Description: toolDescription,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content": map[string]any{
					"type": "string",
					"description": "what you want to search on the knowledge base, " +
						"be specific, and direct to the content you are looking for",
				},
			},
			"required": []string{"content"},
		},
	}
}

// Search retrieves passages for the given input and formats them with
// citations, preserving the ranking of the underlying results.
func (t *RetrievalTool) Search(ctx context.Context, input SearchInput) ([]domain.RetrievedPassage, error) {
	logger.Debug("Tool search: %q", input.Content)

	results, err := t.retriever.Retrieve(ctx, input.Content, t.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrToolExecution, err)
	}

	passages := make([]domain.RetrievedPassage, len(results))
	for i, r := range results {
		passages[i] = domain.RetrievedPassage{
			Content:  r.Payload.Content,
			Score:    r.Score,
			Citation: domain.FormatCitation(r.Payload.Metadata.SourceFile),
			Metadata: domain.PassageMetadata{
				Title:  r.Payload.Metadata.Title,
				Author: r.Payload.Metadata.Author,
				// Extraction does not attribute text to individual
				// pages; the page count is the best locator available.
				Page: r.Payload.Metadata.TotalPages,
			},
		}
	}
	return passages, nil
}

// Execute runs the tool from raw JSON arguments, as dispatched by the
// answer loop, and returns the serialised result for the model.
func (t *RetrievalTool) Execute(ctx context.Context, arguments string) (string, error) {
	var input SearchInput
	if err := json.Unmarshal([]byte(arguments), &input); err != nil {
		return "", fmt.Errorf("%w: decoding arguments: %v", domain.ErrToolExecution, err)
	}

	passages, err := t.Search(ctx, input)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(passages)
	if err != nil {
		return "", fmt.Errorf("%w: encoding results: %v", domain.ErrToolExecution, err)
	}
	return string(data), nil
}
