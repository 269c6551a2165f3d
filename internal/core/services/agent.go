package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Ensure Agent implements the interface.
var _ driving.AnswerService = (*Agent)(nil)

// DefaultMaxTurns caps the number of model turns per question. When
// the cap is reached without a final answer the loop terminates and
// returns the best available partial text.
const DefaultMaxTurns = 5

// systemPolicy is the fixed system prompt. Citation of every factual
// claim is mandated here rather than post-processed.
const systemPolicy = `You are a helpful assistant specializing in document analysis. Follow these rules strictly:

1. Always provide accurate information from the knowledge base
2. Include markdown citations for every piece of information using format: [source](file_path)
3. If multiple sources support a statement, include all relevant citations
4. If you don't find relevant information, say so instead of making up answers
5. Format responses clearly and concisely
6. Ensure citations are properly linked to specific claims
7. Verify information across multiple sources when available

Your responses should be well-structured, accurate, and properly cited.`

// turnLimitAnswer is returned when the turn cap is reached and the
// model never produced any text.
const turnLimitAnswer = "I was unable to finish composing an answer within the allowed number of steps. Please try rephrasing the question."

// Agent runs a bounded tool-calling loop against the language model.
// The tool set is closed: exactly one retrieval tool, dispatched by
// name rather than open reflection.
type Agent struct {
	llm      driven.LLMService
	tool     *RetrievalTool
	maxTurns int
	opts     driven.ChatOptions
}

// AgentOption configures the agent.
type AgentOption func(*Agent)

// WithMaxTurns sets the model turn cap.
func WithMaxTurns(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxTurns = n
		}
	}
}

// WithChatOptions sets the options passed to every model call.
func WithChatOptions(opts driven.ChatOptions) AgentOption {
	return func(a *Agent) {
		a.opts = opts
	}
}

// NewAgent creates a new answer agent.
func NewAgent(llm driven.LLMService, tool *RetrievalTool, opts ...AgentOption) *Agent {
	a := &Agent{
		llm:      llm,
		tool:     tool,
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer runs the question through the tool-calling loop. The model
// decides when and whether to call the retrieval tool; tool results
// are fed back into the conversation until the model produces a
// response with no further tool calls, or the turn cap is reached.
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	logger.Section("Answer Loop")
	logger.Debug("Question: %q", question)

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPolicy},
		{Role: "user", Content: question},
	}
	tools := []driven.ToolDefinition{a.tool.Definition()}

	// Best text seen so far, returned if the turn cap is hit
	var partial string

	for turn := 0; turn < a.maxTurns; turn++ {
		logger.Debug("Model turn %d/%d", turn+1, a.maxTurns)

		reply, err := a.llm.Chat(ctx, messages, tools, a.opts)
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}

		if reply.Content != "" {
			partial = reply.Content
		}

		// Terminal: a response with no further tool calls is the answer
		if len(reply.ToolCalls) == 0 {
			logger.Info("Final answer after %d turn(s)", turn+1)
			return reply.Content, nil
		}

		messages = append(messages, driven.ChatMessage{
			Role:      "assistant",
			Content:   reply.Content,
			ToolCalls: reply.ToolCalls,
		})

		for _, call := range reply.ToolCalls {
			messages = append(messages, a.executeCall(ctx, call))
		}
	}

	logger.Warn("Turn limit reached (%d turns), returning partial answer", a.maxTurns)
	if partial == "" {
		return turnLimitAnswer, nil
	}
	return partial, nil
}

// executeCall dispatches one tool call and returns the tool-result
// message. Failures are reported to the model instead of aborting the
// loop, so it can decide to answer without that evidence or try again.
func (a *Agent) executeCall(ctx context.Context, call driven.ToolCall) driven.ChatMessage {
	msg := driven.ChatMessage{
		Role:       "tool",
		ToolCallID: call.ID,
	}

	if call.Name != ToolName {
		logger.Warn("Model requested unknown tool %q", call.Name)
		msg.Content = fmt.Sprintf(`{"error": "unknown tool %q"}`, call.Name)
		return msg
	}

	result, err := a.tool.Execute(ctx, call.Arguments)
	if err != nil {
		logger.Warn("Tool call failed: %v", err)
		msg.Content = fmt.Sprintf(`{"error": %q}`, err.Error())
		return msg
	}

	msg.Content = result
	return msg
}
