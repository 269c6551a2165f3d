package mcp

import (
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieve provides similarity search over ingested documents.
	Retrieve driving.RetrieveService

	// Answer provides full agentic question answering. Optional: when
	// nil, only the search tool is registered.
	Answer driving.AnswerService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieve == nil {
		return ErrMissingRetrieveService
	}
	return nil
}
