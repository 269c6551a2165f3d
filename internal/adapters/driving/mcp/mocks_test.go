package mcp

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// mockRetrieveService is a mock implementation of driving.RetrieveService.
type mockRetrieveService struct {
	results   []domain.QueryResult
	err       error
	gotText   string
	gotTopK   int
	gotFilter domain.Filter
}

func (m *mockRetrieveService) Retrieve(
	_ context.Context,
	text string,
	topK int,
	filter domain.Filter,
) ([]domain.QueryResult, error) {
	m.gotText = text
	m.gotTopK = topK
	m.gotFilter = filter
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer      string
	err         error
	gotQuestion string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (string, error) {
	m.gotQuestion = question
	return m.answer, m.err
}
