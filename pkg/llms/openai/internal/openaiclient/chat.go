package openaiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
)

// FunctionCallBehavior is the behavior to use when calling functions.
type FunctionCallBehavior string

const (
	// FunctionCallBehaviorNone will not call any functions.
	FunctionCallBehaviorNone FunctionCallBehavior = "none"
	// FunctionCallBehaviorAuto will call functions automatically.
	FunctionCallBehaviorAuto FunctionCallBehavior = "auto"
)

// ChatRequest is a request to complete a chat completion.
type ChatRequest struct {
	Model               string         `json:"model"`
	Messages            []*ChatMessage `json:"messages"`
	Temperature         float64        `json:"temperature,omitempty"`
	TopP                float64        `json:"top_p,omitempty"`
	MaxCompletionTokens int            `json:"max_completion_tokens,omitempty"`
	N                   int            `json:"n,omitempty"`
	StopWords           []string       `json:"stop,omitempty"`
	Stream              bool           `json:"stream,omitempty"`
	FrequencyPenalty    float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty     float64        `json:"presence_penalty,omitempty"`
	Seed                int            `json:"seed,omitempty"`

	// ResponseFormat is the format of the response.
	ResponseFormat *schema.ResponseFormat `json:"response_format,omitempty"`

	Tools      []Tool `json:"tools,omitempty"`
	ToolChoice any    `json:"tool_choice,omitempty"`

	// FunctionCallBehavior is the behavior to use when calling functions.
	// Deprecated in favor of ToolChoice, kept for older deployments.
	FunctionCallBehavior FunctionCallBehavior `json:"function_call,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// PromptCacheKey and PromptCacheRetention control server-side prompt caching.
	PromptCacheKey       string `json:"prompt_cache_key,omitempty"`
	PromptCacheRetention string `json:"prompt_cache_retention,omitempty"`

	StreamOptions *StreamOptions `json:"stream_options,omitempty"`

	// StreamingFunc is a function to be called for each chunk of a streaming response.
	// Return an error to stop streaming early.
	StreamingFunc          func(ctx context.Context, chunk []byte) error                  `json:"-"`
	StreamingReasoningFunc func(ctx context.Context, reasoningChunk, chunk []byte) error `json:"-"`
}

// StreamOptions are options for streaming responses.
type StreamOptions struct {
	// IncludeUsage requests a final chunk with the token usage for the request.
	IncludeUsage bool `json:"include_usage,omitempty"`
}

// ToolFunction is a function to be called in a tool choice.
type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a call to a tool.
type ToolCall struct {
	ID       string       `json:"id,omitempty"`
	Type     ToolType     `json:"type"`
	Function ToolFunction `json:"function,omitempty"`

	// Index identifies the tool call in streaming deltas, where arguments
	// arrive in fragments across chunks.
	Index *int `json:"index,omitempty"`
}

// FunctionCall is a call to a function.
type FunctionCall struct {
	// Name is the name of the function to call.
	Name string `json:"name"`
	// Arguments is the set of arguments to pass to the function, as a JSON string.
	Arguments string `json:"arguments"`
}

// ChatMessage is a message in a chat request or response.
type ChatMessage struct {
	// The role of the author of this message. One of system, user, assistant, tool.
	Role string
	// The content of the message.
	Content string
	// MultiContent is a list of content parts to use in the message. When set,
	// it takes precedence over Content on the wire.
	MultiContent []llms.ContentPart

	// The name of the author of this message.
	Name string

	// ToolCalls is a list of tools that were called in the message.
	ToolCalls []ToolCall

	// FunctionCall represents a function call to be made in the message.
	// Deprecated by the API in favor of ToolCalls, still returned by some models.
	FunctionCall *FunctionCall

	// ToolCallID is the ID of the tool call this message is for.
	// Only present in messages with the tool role.
	ToolCallID string
}

type chatMessageJSON struct {
	Role         string        `json:"role"`
	Content      any           `json:"content,omitempty"`
	Name         string        `json:"name,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	ToolCallID   string        `json:"tool_call_id,omitempty"`
}

type chatContentPartJSON struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	ImageURL *chatImageURLJSON `json:"image_url,omitempty"`
}

type chatImageURLJSON struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// MarshalJSON renders the message in the Chat Completions wire format,
// expanding MultiContent into typed content parts when present.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	out := chatMessageJSON{
		Role:         m.Role,
		Name:         m.Name,
		ToolCalls:    m.ToolCalls,
		FunctionCall: m.FunctionCall,
		ToolCallID:   m.ToolCallID,
	}
	if len(m.MultiContent) > 0 {
		parts := make([]chatContentPartJSON, 0, len(m.MultiContent))
		for _, p := range m.MultiContent {
			switch pt := p.(type) {
			case llms.TextContent:
				parts = append(parts, chatContentPartJSON{Type: "text", Text: pt.Text})
			case llms.ImageURLContent:
				parts = append(parts, chatContentPartJSON{
					Type:     "image_url",
					ImageURL: &chatImageURLJSON{URL: pt.URL, Detail: pt.Detail},
				})
			case llms.BinaryContent:
				parts = append(parts, chatContentPartJSON{
					Type:     "image_url",
					ImageURL: &chatImageURLJSON{URL: pt.String()},
				})
			default:
				return nil, errors.Errorf("unsupported content part type: %T", p)
			}
		}
		out.Content = parts
	} else {
		out.Content = m.Content
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses a message from the Chat Completions wire format.
// Responses always carry plain string content.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw chatMessageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Name = raw.Name
	m.ToolCalls = raw.ToolCalls
	m.FunctionCall = raw.FunctionCall
	m.ToolCallID = raw.ToolCallID
	if s, ok := raw.Content.(string); ok {
		m.Content = s
	}
	return nil
}

// FinishReason is the reason the model stopped generating tokens.
type FinishReason string

// ChatCompletionChoice is a choice in a chat response.
type ChatCompletionChoice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
}

// ChatUsage is the token accounting for a chat response.
type ChatUsage struct {
	PromptTokens        int `json:"prompt_tokens"`
	CompletionTokens    int `json:"completion_tokens"`
	TotalTokens         int `json:"total_tokens"`
	PromptTokensDetails struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

// ChatCompletionResponse is a response to a chat request.
type ChatCompletionResponse struct {
	ID      string                  `json:"id,omitempty"`
	Object  string                  `json:"object,omitempty"`
	Created int64                   `json:"created,omitempty"`
	Model   string                  `json:"model,omitempty"`
	Choices []*ChatCompletionChoice `json:"choices,omitempty"`
	Usage   ChatUsage               `json:"usage,omitempty"`
}

// Tool is a tool to use in a chat request.
type Tool struct {
	Type     ToolType           `json:"type"`
	Function FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition is a definition of a function that can be called by the model.
type FunctionDefinition struct {
	// Name is the name of the function.
	Name string `json:"name"`
	// Description is a description of the function.
	Description string `json:"description,omitempty"`
	// Parameters is the JSON schema of the function's parameters.
	Parameters *jsonschema.Schema `json:"parameters,omitempty"`
	// Strict requests strict schema adherence for the function call.
	Strict bool `json:"strict,omitempty"`
}

type streamedChatDelta struct {
	Role             string        `json:"role,omitempty"`
	Content          string        `json:"content,omitempty"`
	ReasoningContent string        `json:"reasoning_content,omitempty"`
	FunctionCall     *FunctionCall `json:"function_call,omitempty"`
	ToolCalls        []ToolCall    `json:"tool_calls,omitempty"`
}

type streamedChatChoice struct {
	Index        int               `json:"index"`
	Delta        streamedChatDelta `json:"delta"`
	FinishReason FinishReason      `json:"finish_reason"`
}

// StreamedChatResponsePayload is one SSE chunk of a streaming chat response.
type StreamedChatResponsePayload struct {
	ID      string               `json:"id,omitempty"`
	Created float64              `json:"created,omitempty"`
	Model   string               `json:"model,omitempty"`
	Object  string               `json:"object,omitempty"`
	Choices []streamedChatChoice `json:"choices"`
	Usage   *ChatUsage           `json:"usage,omitempty"`
}

func (c *Client) createChat(ctx context.Context, payload *ChatRequest) (*ChatCompletionResponse, error) {
	if payload.StreamingFunc != nil || payload.StreamingReasoningFunc != nil {
		payload.Stream = true
		payload.StreamOptions = &StreamOptions{IncludeUsage: true}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	u := c.buildURL("/chat/completions", payload.Model)
	logger.ContextKV(ctx, xlog.DEBUG, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(string(body)))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	c.setHeaders(req)

	r, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer func() { _ = r.Body.Close() }()

	if r.StatusCode != http.StatusOK {
		msg := errors.Newf("API returned unexpected status code: %d", r.StatusCode)
		var errResp errorMessage
		if err := json.NewDecoder(r.Body).Decode(&errResp); err != nil {
			return nil, msg
		}
		return nil, errors.WithMessage(msg, errResp.Error.Message)
	}

	if payload.Stream {
		return parseStreamingChatResponse(ctx, r, payload)
	}

	var response ChatCompletionResponse
	if err := json.NewDecoder(r.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return &response, nil
}

func parseStreamingChatResponse(ctx context.Context, r *http.Response, payload *ChatRequest) (*ChatCompletionResponse, error) {
	scanner := bufio.NewScanner(r.Body)
	// grow the buffer: a single SSE data line can exceed the default 64K
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	response := ChatCompletionResponse{
		Choices: []*ChatCompletionChoice{{Message: &ChatMessage{}}},
	}
	choice := response.Choices[0]
	toolCalls := map[int]*ToolCall{}

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk StreamedChatResponsePayload
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, errors.Wrap(err, "decode streaming chunk")
		}

		if chunk.Usage != nil {
			response.Usage = *chunk.Usage
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if chunk.Choices[0].FinishReason != "" {
			choice.FinishReason = chunk.Choices[0].FinishReason
		}
		if delta.Role != "" {
			choice.Message.Role = delta.Role
		}
		if delta.FunctionCall != nil {
			if choice.Message.FunctionCall == nil {
				choice.Message.FunctionCall = &FunctionCall{}
			}
			choice.Message.FunctionCall.Name += delta.FunctionCall.Name
			choice.Message.FunctionCall.Arguments += delta.FunctionCall.Arguments
		}
		for _, tc := range delta.ToolCalls {
			idx := len(choice.Message.ToolCalls)
			if tc.Index != nil {
				idx = *tc.Index
			}
			cur, ok := toolCalls[idx]
			if !ok {
				cur = &ToolCall{ID: tc.ID, Type: tc.Type}
				toolCalls[idx] = cur
				choice.Message.ToolCalls = append(choice.Message.ToolCalls, ToolCall{})
			}
			cur.Function.Name += tc.Function.Name
			cur.Function.Arguments += tc.Function.Arguments
		}

		choice.Message.Content += delta.Content
		if delta.Content != "" && payload.StreamingFunc != nil {
			if err := payload.StreamingFunc(ctx, []byte(delta.Content)); err != nil {
				return nil, errors.Wrap(err, "streaming func returned an error")
			}
		}
		if payload.StreamingReasoningFunc != nil && (delta.ReasoningContent != "" || delta.Content != "") {
			if err := payload.StreamingReasoningFunc(ctx, []byte(delta.ReasoningContent), []byte(delta.Content)); err != nil {
				return nil, errors.Wrap(err, "streaming reasoning func returned an error")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read streaming response")
	}

	for i := range choice.Message.ToolCalls {
		if tc, ok := toolCalls[i]; ok {
			choice.Message.ToolCalls[i] = *tc
		}
	}
	return &response, nil
}
