package driving

import "context"

// AnswerService answers natural-language questions with grounded,
// cited text.
type AnswerService interface {
	// Answer runs the question through the tool-calling answer loop
	// and returns the final answer text with citations embedded.
	Answer(ctx context.Context, question string) (string, error)
}
