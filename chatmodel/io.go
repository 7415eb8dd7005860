package chatmodel

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/invopop/jsonschema"
)

// ContentProvider is an interface for types that provide chat content.
type ContentProvider interface {
	// GetContent gets the content of the message for the chat history
	GetContent() string
}

// InputParser is an interface for types that parse their value from the raw LLM input.
type InputParser interface {
	// ParseInput parses the input string.
	// If the input is invalid, it should return ErrFailedUnmarshalInput error.
	ParseInput(input string) error
}

// IBaseResult is an interface for results that can carry a clarification,
// when the run needs more information from the user.
type IBaseResult interface {
	SetClarification(clarification string)
}

// InputRequest is a generic request with a single input field.
type InputRequest struct {
	Input string `json:"input" jsonschema:"title=Input,description=The input message or question."`
}

// NewInputRequest returns InputRequest with the given input.
func NewInputRequest(input string) *InputRequest {
	return &InputRequest{Input: input}
}

// ParseInput parses the input string into the request.
func (r *InputRequest) ParseInput(input string) error {
	err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), r)
	if err != nil {
		return errors.WithStack(ErrFailedUnmarshalInput)
	}
	return nil
}

// GetContent gets the content of the message for the chat history
func (r InputRequest) GetContent() string {
	return r.Input
}

func (InputRequest) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "Input Request"
}

// MCPInputRequest is a request from an MCP client,
// with the chat ID to correlate the conversation.
type MCPInputRequest struct {
	ChatID string `json:"chatID,omitempty" jsonschema:"title=Chat ID,description=The chat ID to continue the conversation. Keep it empty for a new chat."`
	Input  string `json:"input" jsonschema:"title=Input,description=The input message or question."`
}

// ParseInput parses the input string into the request.
func (r *MCPInputRequest) ParseInput(input string) error {
	err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), r)
	if err != nil {
		return errors.WithStack(ErrFailedUnmarshalInput)
	}
	return nil
}

// GetContent gets the content of the message for the chat history
func (r MCPInputRequest) GetContent() string {
	return r.Input
}

func (MCPInputRequest) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "MCP Input Request"
}

// OutputResult is a generic result with a single content field.
type OutputResult struct {
	Content string `json:"content" jsonschema:"title=Content,description=The content of the response."`
}

// NewOutputResult returns OutputResult with the given content.
func NewOutputResult(content string) *OutputResult {
	return &OutputResult{Content: content}
}

// GetContent gets the content of the message for the chat history
func (r OutputResult) GetContent() string {
	return r.Content
}

func (OutputResult) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "Output Result"
}

// BaseClarificationResult provides common fields for structured results,
// allowing the model to ask for clarification and to explain its reasoning.
type BaseClarificationResult struct {
	Confidence    string `json:"confidence,omitempty" jsonschema:"title=Confidence,description=Confidence level of the response: High|Medium|Low."`
	Clarification string `json:"clarification,omitempty" jsonschema:"title=Clarification,description=A clarification question when the request cannot be answered."`
	Reasoning     string `json:"reasoning,omitempty" jsonschema:"title=Reasoning,description=The reasoning behind the response."`
}

// SetConfidence sets the confidence level.
func (r *BaseClarificationResult) SetConfidence(confidence string) {
	r.Confidence = confidence
}

// SetClarification sets the clarification question.
func (r *BaseClarificationResult) SetClarification(clarification string) {
	r.Clarification = clarification
}

// SetReasoning sets the reasoning.
func (r *BaseClarificationResult) SetReasoning(reasoning string) {
	r.Reasoning = reasoning
}
