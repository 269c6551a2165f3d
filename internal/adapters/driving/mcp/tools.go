package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// defaultSearchLimit caps search results when the caller gives none.
const defaultSearchLimit = 5

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Content string `json:"content" jsonschema:"the text to find relevant document passages for"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Citation string  `json:"citation"`
	Title    string  `json:"title,omitempty"`
	Author   string  `json:"author,omitempty"`
	Page     int     `json:"page,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge_base",
		Description: "Search the ingested documents for passages relevant to a text",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question from the ingested documents with source citations",
		}, s.handleAsk)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Retrieve.Retrieve(ctx, input.Content, limit, nil)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Passages: make([]PassageOutput, len(results)),
		Count:    len(results),
	}

	for i := range results {
		payload := results[i].Payload
		output.Passages[i] = PassageOutput{
			Content:  payload.Content,
			Score:    results[i].Score,
			Citation: domain.FormatCitation(payload.Metadata.SourceFile),
			Title:    payload.Metadata.Title,
			Author:   payload.Metadata.Author,
			Page:     payload.Metadata.TotalPages,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}
