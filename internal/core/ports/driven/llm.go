package driven

import "context"

// LLMService provides tool-calling chat against a hosted language model.
//
// Implementations may include:
//   - Azure OpenAI deployments
//   - OpenAI (gpt-4o, gpt-4o-mini)
type LLMService interface {
	// Chat sends the conversation and the available tool definitions
	// to the model and returns its next turn: either final text or a
	// set of tool calls (or both).
	Chat(ctx context.Context, messages []ChatMessage, tools []ToolDefinition, opts ChatOptions) (*ChatTurn, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", "assistant", or "tool".
	Role string

	// Content is the message text. For tool messages it is the
	// serialised tool result.
	Content string

	// ToolCalls carries the tool invocations an assistant message
	// requested, if any.
	ToolCalls []ToolCall

	// ToolCallID ties a tool message back to the call it answers.
	ToolCallID string
}

// ToolCall is a structured request from the model to invoke a tool.
type ToolCall struct {
	// ID is the model-assigned call identifier.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the raw JSON argument object.
	Arguments string
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	// Name is the tool name the model invokes it by.
	Name string

	// Description tells the model what the tool does.
	Description string

	// Parameters is the JSON schema of the tool's input object.
	Parameters map[string]any
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatTurn is one model response.
type ChatTurn struct {
	// Content is the assistant text, possibly empty when the model
	// only requested tools.
	Content string

	// ToolCalls are the tool invocations requested this turn. Empty
	// when the model produced a final answer.
	ToolCalls []ToolCall

	// FinishReason is the provider's stop reason ("stop", "tool_calls", ...).
	FinishReason string
}
