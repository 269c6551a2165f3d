// Package azure provides an LLM service adapter using the Azure OpenAI
// chat completions API with tool calling.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultDeployment = "gpt-4o"
	DefaultAPIVersion = "2024-06-01"
	DefaultTimeout    = 120 * time.Second
)

// Config holds configuration for the Azure OpenAI LLM service.
type Config struct {
	// Endpoint is the Azure resource endpoint,
	// e.g. https://my-resource.openai.azure.com (required).
	Endpoint string

	// APIKey is the Azure OpenAI API key (required).
	APIKey string

	// Deployment is the chat deployment name (default: gpt-4o).
	Deployment string

	// APIVersion selects the API version (default: 2024-06-01).
	APIVersion string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides tool-calling chat using the Azure OpenAI API.
type LLMService struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
}

// chatCompletionRequest is the chat completions request format.
type chatCompletionRequest struct {
	Messages    []chatCompletionMsg `json:"messages"`
	Tools       []chatTool          `json:"tools,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the wire message format. Content keeps
// omitempty off: tool results with empty content are still valid.
type chatCompletionMsg struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// chatCompletionResponse is the chat completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Azure OpenAI LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure: endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("azure: API key is required")
	}
	if cfg.Deployment == "" {
		cfg.Deployment = DefaultDeployment
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
	}, nil
}

// Chat sends the conversation with tool definitions and returns the
// model's next turn.
func (s *LLMService) Chat(
	ctx context.Context,
	messages []driven.ChatMessage,
	tools []driven.ToolDefinition,
	opts driven.ChatOptions,
) (*driven.ChatTurn, error) {
	reqBody := chatCompletionRequest{
		Messages: toWireMessages(messages),
		Tools:    toWireTools(tools),
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.deploymentURL("/chat/completions"),
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("azure error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("azure error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("azure: no response choices returned")
	}

	choice := chatResp.Choices[0]
	return &driven.ChatTurn{
		Content:      choice.Message.Content,
		ToolCalls:    fromWireToolCalls(choice.Message.ToolCalls),
		FinishReason: choice.FinishReason,
	}, nil
}

// ModelName returns the deployment name being used.
func (s *LLMService) ModelName() string {
	return s.deployment
}

// Ping validates the service is reachable by requesting a one-token
// completion. Azure exposes no per-deployment health endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.Chat(ctx,
		[]driven.ChatMessage{{Role: "user", Content: "ping"}},
		nil,
		driven.ChatOptions{MaxTokens: 1},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (s *LLMService) deploymentURL(suffix string) string {
	return fmt.Sprintf("%s/openai/deployments/%s%s?api-version=%s",
		s.endpoint, s.deployment, suffix, s.apiVersion)
}

func toWireMessages(messages []driven.ChatMessage) []chatCompletionMsg {
	wire := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		wire[i] = chatCompletionMsg{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			wireCall := chatToolCall{ID: call.ID, Type: "function"}
			wireCall.Function.Name = call.Name
			wireCall.Function.Arguments = call.Arguments
			wire[i].ToolCalls = append(wire[i].ToolCalls, wireCall)
		}
	}
	return wire
}

func toWireTools(tools []driven.ToolDefinition) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	wire := make([]chatTool, len(tools))
	for i, tool := range tools {
		wire[i] = chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return wire
}

func fromWireToolCalls(calls []chatToolCall) []driven.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]driven.ToolCall, len(calls))
	for i, call := range calls {
		out[i] = driven.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}
	return out
}
