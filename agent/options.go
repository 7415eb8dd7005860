package agent

import (
	"context"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/encoding"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/payload"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/store"
)

// Defaults for the run loop limits.
const (
	// DefaultMaxRetries is the number of retries on an empty LLM response.
	DefaultMaxRetries = 3
	// DefaultMaxToolCalls budgets the tool calls of a single run.
	DefaultMaxToolCalls = 30
	// DefaultMaxMessages limits the message history of a single run.
	DefaultMaxMessages = 100
	// DefaultMaxContentSize limits the total content bytes sent to the LLM.
	DefaultMaxContentSize = 256 * 1024
)

// Option is a function that can be used to modify the behavior of the Agent Config.
type Option func(*Config)

// Config carries the agent and per-call LLM options.
type Config struct {
	// Model is the model to use in an LLM call.
	Model    string
	modelSet bool

	// MaxTokens is the maximum number of tokens to generate to use in an LLM call.
	MaxTokens    int
	maxTokensSet bool

	// Temperature is the temperature for sampling to use in an LLM call, between 0 and 1.
	Temperature    float64
	temperatureSet bool

	// StopWords is a list of words to stop on to use in an LLM call.
	StopWords    []string
	stopWordsSet bool

	// TopK is the number of tokens to consider for top-k sampling in an LLM call.
	TopK    int
	topkSet bool

	// TopP is the cumulative probability for top-p sampling in an LLM call.
	TopP    float64
	toppSet bool

	// Seed is a seed for deterministic sampling in an LLM call.
	Seed    int
	seedSet bool

	// MaxLength is the maximum content size in bytes sent to the LLM during a run.
	MaxLength int

	// RepetitionPenalty is the repetition penalty for sampling in an LLM call.
	RepetitionPenalty    float64
	repetitionPenaltySet bool

	// ReasoningEffort constrains how much reasoning the model performs,
	// for models that support it.
	ReasoningEffort    llms.ReasoningEffort
	reasoningEffortSet bool

	// CallbackHandler receives the agent run events.
	CallbackHandler Callback

	// Tools is a list of tool definitions to pass to the LLM call.
	Tools    []llms.Tool
	toolsSet bool

	// ToolChoice is the choice of tool to use, it can either be "none", "auto"
	// (the default behavior), or a specific tool as described in the ToolChoice type.
	ToolChoice    any
	toolChoiceSet bool

	// StreamingFunc is a function to be called for each chunk of a streaming response.
	// Return an error to stop streaming early.
	StreamingFunc func(ctx context.Context, chunk []byte) error

	// ResponseFormat is the structured output format for providers that support it.
	ResponseFormat *schema.ResponseFormat

	//
	// Below are the options for the Agent, not related to LLM call
	//

	// SystemPrompt is the system prompt template.
	// When nil the agent uses its default prompt.
	SystemPrompt prompts.FormatPrompter

	// Store persists the chat history between runs.
	// By default no store is used.
	Store store.MessageStore

	// Payload is the initial payload merged into MCP tool call arguments.
	Payload payload.Payload

	// MaxMessages limits the message history of a single run.
	MaxMessages int
	// MaxToolCalls budgets the tool calls of a single run.
	MaxToolCalls int

	PromptInput        map[string]any
	Examples           chatmodel.FewShotExamples
	Mode               encoding.Mode
	SkipMessageHistory bool
	SkipToolHistory    bool
	IsGeneric          bool
}

// NewConfig returns a Config with defaults applied, then the options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Mode:         encoding.ModeDefault,
		MaxMessages:  DefaultMaxMessages,
		MaxToolCalls: DefaultMaxToolCalls,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Apply returns a copy of the Config with the options applied.
func (c *Config) Apply(opts ...Option) *Config {
	cfg := *c
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithMode is an option that allows to specify the encoding mode.
func WithMode(mode encoding.Mode) Option {
	return func(o *Config) {
		o.Mode = mode
	}
}

// WithExamples is an option that allows to specify the few-shot examples for the system prompt.
func WithExamples(examples chatmodel.FewShotExamples) Option {
	return func(o *Config) {
		o.Examples = examples
	}
}

// WithSystemPrompt is an option that allows to specify the system prompt template.
func WithSystemPrompt(prompt prompts.FormatPrompter) Option {
	return func(o *Config) {
		o.SystemPrompt = prompt
	}
}

// WithStore is an option that allows to persist the chat history.
func WithStore(store store.MessageStore) Option {
	return func(o *Config) {
		o.Store = store
	}
}

// WithPayload is an option that allows to specify the initial payload,
// merged into MCP tool call arguments and hidden from the model.
func WithPayload(p payload.Payload) Option {
	return func(o *Config) {
		o.Payload = p
	}
}

// WithSkipMessageHistory is an option that allows to skip adding run messages to History.
func WithSkipMessageHistory(skip bool) Option {
	return func(o *Config) {
		o.SkipMessageHistory = skip
	}
}

// WithSkipToolHistory is an option that allows to skip adding tool calls and
// their responses to History.
func WithSkipToolHistory(skip bool) Option {
	return func(o *Config) {
		o.SkipToolHistory = skip
	}
}

// WithGeneric is an option that marks the agent run as a step of a larger run,
// its messages are stored with the generic role.
func WithGeneric(generic bool) Option {
	return func(o *Config) {
		o.IsGeneric = generic
	}
}

// WithMaxMessages is an option that limits the message history of a single run.
func WithMaxMessages(limit int) Option {
	return func(o *Config) {
		o.MaxMessages = limit
	}
}

// WithMaxToolCalls is an option that budgets the tool calls of a single run.
func WithMaxToolCalls(limit int) Option {
	return func(o *Config) {
		o.MaxToolCalls = limit
	}
}

// WithMaxContentSize is an option that limits the total content bytes sent
// to the LLM during a run.
func WithMaxContentSize(size int) Option {
	return func(o *Config) {
		o.MaxLength = size
	}
}

// WithPromptInput is an option that allows the user to specify the system prompt input.
func WithPromptInput(input map[string]any) Option {
	return func(o *Config) {
		o.PromptInput = input
	}
}

// WithModel is an option for LLM.Call.
func WithModel(model string) Option {
	return func(o *Config) {
		o.Model = model
		o.modelSet = true
	}
}

// WithMaxTokens is an option for LLM.Call.
func WithMaxTokens(maxTokens int) Option {
	return func(o *Config) {
		o.MaxTokens = maxTokens
		o.maxTokensSet = true
	}
}

// WithTemperature is an option for LLM.Call.
func WithTemperature(temperature float64) Option {
	return func(o *Config) {
		o.Temperature = temperature
		o.temperatureSet = true
	}
}

// WithStreamingFunc is an option for LLM.Call that allows streaming responses.
func WithStreamingFunc(streamingFunc func(ctx context.Context, chunk []byte) error) Option {
	return func(o *Config) {
		o.StreamingFunc = streamingFunc
	}
}

// WithTopK will add an option to use top-k sampling for LLM.Call.
func WithTopK(topK int) Option {
	return func(o *Config) {
		o.TopK = topK
		o.topkSet = true
	}
}

// WithTopP	will add an option to use top-p sampling for LLM.Call.
func WithTopP(topP float64) Option {
	return func(o *Config) {
		o.TopP = topP
		o.toppSet = true
	}
}

// WithSeed will add an option to use deterministic sampling for LLM.Call.
func WithSeed(seed int) Option {
	return func(o *Config) {
		o.Seed = seed
		o.seedSet = true
	}
}

// WithRepetitionPenalty will add an option to set the repetition penalty for sampling.
func WithRepetitionPenalty(repetitionPenalty float64) Option {
	return func(o *Config) {
		o.RepetitionPenalty = repetitionPenalty
		o.repetitionPenaltySet = true
	}
}

// WithReasoningEffort will add an option to set the reasoning effort,
// for models that support it.
func WithReasoningEffort(effort llms.ReasoningEffort) Option {
	return func(o *Config) {
		o.ReasoningEffort = effort
		o.reasoningEffortSet = true
	}
}

// WithStopWords is an option for setting the stop words for LLM.Call.
func WithStopWords(stopWords []string) Option {
	return func(o *Config) {
		o.StopWords = stopWords
		o.stopWordsSet = true
	}
}

// WithResponseFormat is an option that sets the structured output format
// for providers that support it.
func WithResponseFormat(rf *schema.ResponseFormat) Option {
	return func(o *Config) {
		o.ResponseFormat = rf
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithTools is an option for LLM.Call.
func WithTools(tools []llms.Tool) Option {
	return func(o *Config) {
		o.Tools = tools
		o.toolsSet = true
	}
}

// WithTool is an option for LLM.Call.
func WithTool(tool llms.Tool) Option {
	return func(o *Config) {
		o.Tools = append(o.Tools, tool)
		o.toolsSet = true
	}
}

// WithToolChoice is an option for LLM.Call.
func WithToolChoice(choice any) Option {
	return func(o *Config) {
		o.ToolChoice = choice
		o.toolChoiceSet = true
	}
}

// GetCallOptions converts the Config into LLM call options,
// after applying the extra options.
func (c *Config) GetCallOptions(options ...Option) []llms.CallOption {
	cfg := c.Apply(options...)

	var callOptions []llms.CallOption
	if cfg.modelSet {
		callOptions = append(callOptions, llms.WithModel(cfg.Model))
	}
	if cfg.maxTokensSet {
		callOptions = append(callOptions, llms.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.temperatureSet {
		callOptions = append(callOptions, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.stopWordsSet {
		callOptions = append(callOptions, llms.WithStopWords(cfg.StopWords))
	}
	if cfg.topkSet {
		callOptions = append(callOptions, llms.WithTopK(cfg.TopK))
	}
	if cfg.toppSet {
		callOptions = append(callOptions, llms.WithTopP(cfg.TopP))
	}
	if cfg.seedSet {
		callOptions = append(callOptions, llms.WithSeed(cfg.Seed))
	}
	if cfg.repetitionPenaltySet {
		callOptions = append(callOptions, llms.WithRepetitionPenalty(cfg.RepetitionPenalty))
	}
	if cfg.reasoningEffortSet {
		callOptions = append(callOptions, llms.WithReasoningEffort(cfg.ReasoningEffort))
	}
	if cfg.toolsSet {
		callOptions = append(callOptions, llms.WithTools(cfg.Tools))
	}
	if cfg.toolChoiceSet {
		callOptions = append(callOptions, llms.WithToolChoice(cfg.ToolChoice))
	}
	if cfg.ResponseFormat != nil {
		callOptions = append(callOptions, llms.WithResponseFormat(cfg.ResponseFormat))
	}
	if cfg.StreamingFunc != nil {
		callOptions = append(callOptions, llms.WithStreamingFunc(cfg.StreamingFunc))
	}

	return callOptions
}
