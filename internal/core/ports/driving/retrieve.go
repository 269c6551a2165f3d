package driving

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// RetrieveService answers similarity queries with ranked passages.
type RetrieveService interface {
	// Retrieve embeds the question and returns the topK most similar
	// stored passages, optionally restricted by a payload filter.
	// topK <= 0 selects the default (5).
	Retrieve(ctx context.Context, question string, topK int, filter domain.Filter) ([]domain.QueryResult, error)
}
