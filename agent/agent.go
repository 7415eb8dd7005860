package agent

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/adapter"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/encoding"
	"github.com/effective-security/mcpagent/mcpclient"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/pkg/payload"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

// Agent runs a task loop against an LLM, dispatching tool calls to the tools
// converted from the connected MCP servers and to any extra native tools.
//
// The payload the Agent holds is shared, mutable state: concurrent runs that
// call SetPayload race and the last writer wins. To isolate concurrent runs
// on one Agent, scope the payload to the call context with
// payload.WithContext instead.
type Agent[O chatmodel.ContentProvider] struct {
	LLM          llms.Model
	OutputParser chatmodel.OutputParser[O]

	client  *mcpclient.Client
	adapter *adapter.Adapter

	toolsByName map[string]tools.ITool
	toolsNames  []string
	tools       []tools.ITool
	llmToolDefs []llms.Tool

	cfg         *Config
	name        string
	description string
	sysprompt   prompts.FormatPrompter
	runMessages []llms.Message
	onPrompt    ProvidePromptInputsFunc
	inputParser func(string) (string, error)

	lock        sync.Mutex
	payload     payload.Payload
	initialized bool
}

var (
	_ TypeableAgent[chatmodel.OutputResult] = (*Agent[chatmodel.OutputResult])(nil)
	_ HasCallback                           = (*Agent[chatmodel.OutputResult])(nil)
)

// New initializes the Agent over the MCP client.
// The client may be nil for an agent with native tools only.
func New[O chatmodel.ContentProvider](
	llmModel llms.Model,
	client *mcpclient.Client,
	options ...Option) *Agent[O] {
	cfg := NewConfig(options...)
	sysprompt := cfg.SystemPrompt
	if sysprompt == nil {
		sysprompt = DefaultSystemPrompt
	}
	ret := &Agent[O]{
		cfg:         cfg,
		LLM:         llmModel,
		client:      client,
		sysprompt:   sysprompt,
		name:        "MCP Agent",
		description: "An AI agent that performs tasks with tools provided by MCP servers.",
		payload:     cfg.Payload.Clone(),
	}
	if client != nil {
		ret.adapter = adapter.New(client, adapter.WithPayload(cfg.Payload))
	}

	var output O
	ret.OutputParser, _ = encoding.NewTypedOutputParser(output, ret.cfg.Mode)

	prov := llmModel.GetProviderType()
	strict := ret.cfg.Mode == encoding.ModeJSONSchemaStrict && prov.Supports(llms.CapabilityJSONSchemaStrict)
	jsonSchema := (ret.cfg.Mode == encoding.ModeJSONSchema || ret.cfg.Mode == encoding.ModeJSONSchemaStrict) &&
		prov.Supports(llms.CapabilityJSONSchema)
	if jsonSchema {
		rf, err := schema.NewResponseFormat(reflect.TypeOf(output), strict)
		if err != nil {
			logger.KV(xlog.ERROR,
				"status", "failed_to_create_response_format",
				"err", err.Error(),
			)
		}
		ret.cfg.ResponseFormat = rf
	}

	return ret
}

// WithOutputParser sets the output parser.
func (a *Agent[O]) WithOutputParser(outputParser chatmodel.OutputParser[O]) *Agent[O] {
	a.OutputParser = outputParser
	return a
}

// WithInputParser sets the input parser for the Agent.
func (a *Agent[O]) WithInputParser(inputParser func(string) (string, error)) {
	a.inputParser = inputParser
}

func (a *Agent[O]) GetCallConfig(opts ...Option) *Config {
	return a.cfg.Apply(opts...)
}

// GetCallback returns the configured callback, or nil.
func (a *Agent[O]) GetCallback() Callback {
	return a.cfg.CallbackHandler
}

// WithName sets the name of the Agent, when used in a prompt of another Agents or LLMs.
func (a *Agent[O]) WithName(name string) *Agent[O] {
	a.name = name
	return a
}

// WithDescription sets the description of the Agent, to be used in the prompt of other Agents or LLMs.
func (a *Agent[O]) WithDescription(description string) *Agent[O] {
	a.description = description
	return a
}

// Name returns the name of the Agent.
func (a *Agent[O]) Name() string {
	return a.name
}

// Description returns the description of the Agent, to be used in the prompt of other Agents or LLMs.
// Should not exceed LLM model limit.
func (a *Agent[O]) Description() string {
	return a.description
}

func (a *Agent[O]) GetTools() []tools.ITool {
	return a.tools
}

// WithTools adds new tools to the Agent,
// existing tools are not replaced.
func (a *Agent[O]) WithTools(list ...tools.ITool) *Agent[O] {
	if a.toolsByName == nil {
		a.toolsByName = make(map[string]tools.ITool)
	}
	for _, tool := range list {
		name := tool.Name()
		// use lowercase for the key
		nameLowerCase := strings.ToLower(name)
		if a.toolsByName[nameLowerCase] == nil {
			a.toolsByName[nameLowerCase] = tool
			a.toolsNames = append(a.toolsNames, name)
			a.tools = append(a.tools, tool)
			t := llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        name,
					Description: tool.Description(),
					Parameters:  tool.Parameters(),
				},
			}
			a.llmToolDefs = append(a.llmToolDefs, t)
		}
	}

	return a
}

// SetPayload replaces the payload merged into MCP tool call arguments,
// and pushes the new value to the adapter. A nil payload clears it.
func (a *Agent[O]) SetPayload(p payload.Payload) {
	a.lock.Lock()
	a.payload = p.Clone()
	a.lock.Unlock()

	if a.adapter != nil {
		a.adapter.SetPayload(p)
	}
}

// GetPayload returns a copy of the current payload, or nil.
func (a *Agent[O]) GetPayload() payload.Payload {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.payload.Clone()
}

// Initialize connects to the configured MCP servers and registers their
// tools with the Agent. It is idempotent and is called by Run when needed.
func (a *Agent[O]) Initialize(ctx context.Context) error {
	if a.initialized || a.client == nil {
		return nil
	}
	if err := a.client.CreateAllSessions(ctx); err != nil {
		return err
	}
	converted, err := a.adapter.Tools(ctx)
	if err != nil {
		return err
	}
	a.WithTools(converted...)
	a.initialized = true

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", a.name,
		"status", "initialized",
		"tools", len(converted),
	)
	return nil
}

// Close closes the MCP sessions the Agent created.
func (a *Agent[O]) Close(ctx context.Context) error {
	a.initialized = false
	if a.client == nil {
		return nil
	}
	return a.client.CloseAllSessions(ctx)
}

func (a *Agent[O]) LastRunMessages() []llms.Message {
	return a.runMessages
}

func (a *Agent[O]) FormatPrompt(promptInputs map[string]any) (llms.PromptValue, error) {
	return a.sysprompt.FormatPrompt(llmutils.MergeInputs(a.cfg.PromptInput, promptInputs))
}

func (a *Agent[O]) GetPromptInputVariables() []string {
	return a.sysprompt.GetInputVariables()
}

func (a *Agent[O]) WithPromptInputProvider(cb ProvidePromptInputsFunc) {
	a.onPrompt = cb
}

// GetSystemPrompt generates the system prompt for the Agent.
func (a *Agent[O]) GetSystemPrompt(ctx context.Context, input string, promptInputs map[string]any) (string, error) {
	if a.onPrompt != nil {
		extra, err := a.onPrompt(ctx, input)
		if err != nil {
			return "", errors.WithMessage(err, "failed to get prompt inputs")
		}
		if len(extra) > 0 {
			promptInputs = llmutils.MergeInputs(promptInputs, extra)
		}
	}

	for _, v := range a.sysprompt.GetInputVariables() {
		if v == "tools" {
			promptInputs = llmutils.MergeInputs(promptInputs, map[string]any{
				"tools": tools.GetDescriptions(a.tools...),
			})
			break
		}
	}

	promptValue, err := a.FormatPrompt(promptInputs)
	if err != nil {
		return "", err
	}

	// Convert the prompt value to a string.
	systemPrompt := strings.TrimRight(promptValue.String(), "\n") // Ensure no trailing newline.

	if a.cfg.ResponseFormat == nil {
		// if provider supports json response, but not json_schema,
		// we need to add the output schema to the system prompt
		// Get the output schema instructions and trim any trailing newlines.
		outputSchema := strings.TrimRight(a.OutputParser.GetFormatInstructions(), "\n")
		if outputSchema != "" {
			// Append the output schema to the system prompt with a separating newline.
			systemPrompt = fmt.Sprintf("%s\n\n# OUTPUT SCHEMA\n%s", systemPrompt, outputSchema)
		}
	}
	return systemPrompt, nil
}

// Call runs the Agent and parses the final response into a new output value.
func (a *Agent[O]) Call(ctx context.Context, input *CallInput) (*llms.ContentResponse, error) {
	var output O
	return a.Run(ctx, input, &output)
}

// Run executes the agent loop for the input.
// When input.Payload is not nil, it replaces the agent payload via SetPayload
// before the loop starts, and stays in effect after the run completes.
func (a *Agent[O]) Run(ctx context.Context, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, error) {
	started := time.Now()
	defer metricskey.PerfAgentCall.MeasureSince(started, a.Name())

	if input.Payload != nil {
		a.SetPayload(input.Payload)
	}
	if err := a.Initialize(ctx); err != nil {
		return nil, errors.WithMessage(err, "failed to initialize agent")
	}

	// reset the run messages
	a.runMessages = nil
	// create a per call config
	cfg := a.GetCallConfig(input.Options...)

	callback := cfg.CallbackHandler
	if callback != nil {
		callback.OnAgentStart(ctx, a, input.Input)
	}

	resp, messages, err := a.run(ctx, cfg, input, optionalOutputType)
	if err != nil {
		metricskey.StatsAgentCallsFailed.IncrCounter(1, a.Name())
		if callback != nil {
			callback.OnAgentError(ctx, a, input.Input, err, messages)
		}
		return nil, err
	}
	metricskey.StatsAgentCallsSucceeded.IncrCounter(1, a.Name())
	if callback != nil {
		callback.OnAgentEnd(ctx, a, input.Input, resp, messages)
	}
	return resp, nil
}

// run executes the main logic of the Agent, generating a response based on the input and prompt inputs.
func (a *Agent[O]) run(ctx context.Context, cfg *Config, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, []llms.Message, error) {
	chatID, _, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(chatmodel.ErrInvalidChatContext)
	}

	systemPrompt, err := a.GetSystemPrompt(ctx, input.Input, input.PromptInputs)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "failed to format system prompt")
	}

	messageHistory := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, systemPrompt),
	}
	for _, example := range cfg.Examples {
		messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleHuman, example.Prompt))
		messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleAI, example.Completion))
	}
	if cfg.Store != nil {
		prevMessages := cfg.Store.Messages(ctx)
		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"chat_id", chatID,
			"message_history", len(prevMessages))
		messageHistory = append(messageHistory, prevMessages...)
	}

	parsedInput := input.Input

	var userMessage llms.Message
	if parsedInput != "" {
		if a.inputParser != nil {
			parsedInput, err = a.inputParser(parsedInput)
			if err != nil {
				return nil, messageHistory, errors.WithMessage(err, "failed to parse input")
			}
		}

		role := llms.RoleHuman
		if cfg.IsGeneric {
			a.runMessages = append(a.runMessages, llms.MessageFromTextParts(llms.RoleGeneric, llmutils.AddComment("agent", a.name, "question", parsedInput)))
		} else {
			a.runMessages = append(a.runMessages, llms.MessageFromTextParts(llms.RoleHuman, parsedInput))
		}
		userMessage = llms.MessageFromTextParts(role, parsedInput)
		messageHistory = append(messageHistory, userMessage)
	}

	if len(input.Messages) > 0 {
		messageHistory = append(messageHistory, input.Messages...)
	}

	var extraOptions []Option
	if len(a.llmToolDefs) > 0 {
		prov := a.LLM.GetProviderType()
		if !prov.Supports(llms.CapabilityFunctionCalling) {
			return nil, messageHistory, errors.Newf("agent %s: the LLM does not support function calling", a.name)
		}
		extraOptions = append(extraOptions, WithTools(a.llmToolDefs))
	}
	callOpts := cfg.GetCallOptions(extraOptions...)

	agentName := a.Name()
	modelName := a.LLM.GetName()

	var totalToolExecuted int
	var resp *llms.ContentResponse
	maxRetries := DefaultMaxRetries
	retryCount := 0
	consecutiveNotFoundCount := 0

	bytesLimit := uint64(values.NumbersCoalesce(cfg.MaxLength, DefaultMaxContentSize))
	toolsLimit := values.NumbersCoalesce(cfg.MaxToolCalls, DefaultMaxToolCalls)
	for {
		if len(messageHistory) >= cfg.MaxMessages {
			return nil, messageHistory, errors.Newf("agent %s: the messages count exceeded limit", agentName)
		}
		bytesSent := llmutils.CountMessagesContentSize(messageHistory)
		if bytesSent > bytesLimit {
			return nil, messageHistory, errors.Newf("agent %s: the content size exceeded limit", agentName)
		}

		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnAgentLLMCallStart(ctx, a, a.LLM, messageHistory)
		}

		metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messageHistory)), agentName, modelName)
		metricskey.StatsLLMBytesSent.IncrCounter(float64(bytesSent), agentName, modelName)

		resp, err = a.LLM.GenerateContent(ctx, messageHistory, callOpts...)
		if err != nil {
			return nil, messageHistory, errors.Wrapf(err, "failed to generate content from LLM")
		}

		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnAgentLLMCallEnd(ctx, a, a.LLM, resp)
		}

		bytesReceived := llmutils.CountResponseContentSize(resp)
		metricskey.StatsLLMBytesReceived.IncrCounter(float64(bytesReceived), agentName, modelName)
		metricskey.StatsLLMBytesTotal.IncrCounter(float64(bytesSent+bytesReceived), agentName, modelName)

		tokensIn, tokensOut, tokensTotal := llmutils.CountTokens(resp)
		metricskey.StatsLLMInputTokens.IncrCounter(float64(tokensIn), agentName, modelName)
		metricskey.StatsLLMOutputTokens.IncrCounter(float64(tokensOut), agentName, modelName)
		metricskey.StatsLLMTotalTokens.IncrCounter(float64(tokensTotal), agentName, modelName)

		// Check for empty response and retry if needed
		if len(resp.Choices) == 0 {
			retryCount++
			if retryCount >= maxRetries {
				logger.ContextKV(ctx, xlog.ERROR,
					"agent", agentName,
					"status", "max_retries_exceeded",
					"input", slices.StringUpto(parsedInput, 64),
					"retry_count", retryCount,
				)
				return nil, messageHistory, errors.Newf("agent %s: LLM returned empty response after %d retries", agentName, retryCount)
			}
			metricskey.StatsAgentCallsRetried.IncrCounter(1, agentName)
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", agentName,
				"status", "retrying_empty_response",
				"retry_count", retryCount,
			)
			continue
		}

		// Perform Tool call
		var toolExecuted int
		var notFoundCount int
		toolExecuted, notFoundCount, messageHistory, err = a.executeToolCalls(ctx, cfg, messageHistory, resp, input.Options...)
		if err != nil {
			return nil, messageHistory, err
		}

		if toolExecuted == 0 {
			break
		}
		consecutiveNotFoundCount += notFoundCount
		totalToolExecuted += toolExecuted
		if consecutiveNotFoundCount > 3 {
			return nil, messageHistory, errors.Newf("agent %s: the number of not found tools is exceeded", agentName)
		}
		// reset
		consecutiveNotFoundCount = 0
		if totalToolExecuted >= toolsLimit {
			return nil, messageHistory, errors.Newf("agent %s: the tool calls limit is exceeded", agentName)
		}
	}

	choices := resp.Choices
	if len(choices) < 1 {
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", agentName,
			"status", "empty_choices",
			"input", slices.StringUpto(parsedInput, 64),
		)
		return nil, messageHistory, errors.Newf("agent %s: LLM returned empty response with no choices", agentName)
	}

	// Log response analysis for debugging
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", agentName,
		"status", "response_analysis",
		"choices_count", len(choices),
		"tool_calls", totalToolExecuted,
	)

	result := choices[0].Content
	if len(choices) > 1 {
		// Handle multiple choices by combining their content
		var combinedContent strings.Builder
		for i, choice := range choices {
			if i > 0 {
				combinedContent.WriteString("\n\n")
			}
			combinedContent.WriteString(choice.Content)
		}
		result = combinedContent.String()
	}

	if optionalOutputType != nil {
		finalOutput, err := a.OutputParser.Parse(result)
		if err != nil {
			metricskey.StatsAgentLLMParseErrors.IncrCounter(1, agentName)
			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", agentName,
				"status", "failed_to_parse_llm_response",
				"err", err.Error(),
				"output_parser", a.OutputParser.Type(),
				"result", result,
			)

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnAgentLLMParseError(ctx, a, input.Input, result, err)
			}

			return nil, messageHistory, err
		}
		*optionalOutputType = *finalOutput

		if prov, ok := (any)(finalOutput).(chatmodel.ContentProvider); ok {
			result = prov.GetContent()
		}
	}

	messageHistory = append(messageHistory, llms.MessageFromTextParts(llms.RoleAI, result))

	if cfg.IsGeneric {
		a.runMessages = append(a.runMessages, llms.MessageFromTextParts(llms.RoleGeneric, llmutils.AddComment("agent", agentName, "observation", result)))
	} else {
		a.runMessages = append(a.runMessages, llms.MessageFromTextParts(llms.RoleAI, result))
	}

	if cfg.Store != nil && !cfg.SkipMessageHistory {
		for _, msg := range a.runMessages {
			_ = cfg.Store.Add(ctx, msg)
		}

		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", agentName,
			"chat_id", chatID,
			"status", "added_message_history",
			"message_history", len(a.runMessages),
			"human", slices.StringUpto(parsedInput, 64),
			"ai", slices.StringUpto(result, 64),
		)
	}

	return resp, messageHistory, nil
}

// executeToolCalls executes the tool calls in the response and returns the
// updated message history.
func (a *Agent[O]) executeToolCalls(ctx context.Context, cfg *Config, messageHistory []llms.Message, resp *llms.ContentResponse, options ...Option) (int, int, []llms.Message, error) {
	executedCount := 0
	notFoundCount := 0

	var lock sync.Mutex

	// Create a type to hold tool call results
	type toolCallResult struct {
		toolCall llms.ToolCall
		response string
		err      error
		index    int // Index in the original toolCalls slice
	}

	var toolCalls []llms.ToolCall

	// Collect all tool calls first and add them to message history
	for _, choice := range resp.Choices {
		var choiceToolCalls []llms.ToolCall

		// Collect all tool calls from this choice
		for i, toolCall := range choice.ToolCalls {
			executedCount++

			if toolCall.ID == "" {
				toolCall.ID = fmt.Sprintf("%s_%d", toolCall.FunctionCall.Name, i)
			}
			toolCall.Type = values.StringsCoalesce(toolCall.Type, "function")

			choiceToolCalls = append(choiceToolCalls, toolCall)

			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", a.name,
				"status", "tool_call_found",
				"tool_call_id", toolCall.ID,
				"tool_call_name", toolCall.FunctionCall.Name,
			)
		}

		if len(choiceToolCalls) == 0 {
			continue
		}

		toolCalls = append(toolCalls, choiceToolCalls...)
		agentResponse := llms.MessageFromToolCalls(llms.RoleAI, choiceToolCalls...)
		messageHistory = append(messageHistory, agentResponse)
		if !cfg.SkipMessageHistory && !cfg.SkipToolHistory {
			lock.Lock()
			a.runMessages = append(a.runMessages, agentResponse)
			lock.Unlock()
		}
	}

	if executedCount == 0 {
		return executedCount, notFoundCount, messageHistory, nil
	}

	// Channel to collect results - buffered to prevent deadlock
	resultChan := make(chan toolCallResult, len(toolCalls))

	// Create a wait group to ensure all tool calls complete
	var wg sync.WaitGroup
	wg.Add(len(toolCalls))

	// Launch goroutines for each tool call
	for i, toolCall := range toolCalls {
		go func(index int, tc llms.ToolCall) {
			defer wg.Done()
			toolName := tc.FunctionCall.Name
			toolArgs := tc.FunctionCall.Arguments

			// use lowercase for the key
			tool := a.toolsByName[strings.ToLower(toolName)]
			if tool == nil {
				lock.Lock()
				notFoundCount++
				lock.Unlock()
				metricskey.StatsToolCallsNotFound.IncrCounter(1, toolName)
				if cfg.CallbackHandler != nil {
					cfg.CallbackHandler.OnToolNotFound(ctx, a, toolName)
				}

				availableTools := strings.Join(a.toolsNames, ", ")
				logger.ContextKV(ctx, xlog.WARNING,
					"agent", a.name,
					"status", "tool_not_found",
					"tool_name", toolName,
					"available_tools", availableTools,
				)

				resultChan <- toolCallResult{
					toolCall: tc,
					response: fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", toolName, availableTools),
					index:    index,
				}
				return
			}

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnToolStart(ctx, tool, a.Name(), toolArgs)
			}

			started := time.Now()

			var res string
			var err error
			if at, ok := tool.(IAgentTool); ok {
				res, err = at.CallAgent(ctx, toolArgs, options...)
			} else {
				res, err = tool.Call(ctx, toolArgs)
			}
			metricskey.PerfToolCall.MeasureSince(started, toolName)

			if err != nil {
				metricskey.StatsToolCallsFailed.IncrCounter(1, toolName)

				if cfg.CallbackHandler != nil {
					cfg.CallbackHandler.OnToolError(ctx, tool, a.Name(), toolArgs, err)
				}

				if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
					res = llmutils.AddComment("agent", a.Name(), "error", "Failed to unmarshal input, check the JSON schema and try again.")
				} else {
					resultChan <- toolCallResult{
						toolCall: tc,
						err:      errors.WithMessagef(err, "failed to call tool %s", toolName),
						index:    index,
					}
					return
				}
			}
			metricskey.StatsToolCallsSucceeded.IncrCounter(1, toolName)

			if cfg.CallbackHandler != nil {
				cfg.CallbackHandler.OnToolEnd(ctx, tool, a.Name(), toolArgs, res)
			}

			resultChan <- toolCallResult{
				toolCall: tc,
				response: res,
				index:    index,
			}
		}(i, toolCall)
	}

	// Wait for all tool calls to complete
	wg.Wait()
	close(resultChan)

	// Collect results in order using the index
	results := make([]toolCallResult, len(toolCalls))
	for result := range resultChan {
		if result.index >= 0 && result.index < len(results) {
			results[result.index] = result
		}
	}

	// Ensure we have responses for all tool calls
	for i, result := range results {
		if result.toolCall.ID == "" {
			// If we somehow missed a result, create an error response
			toolCall := toolCalls[i]
			results[i] = toolCallResult{
				toolCall: toolCall,
				response: "Tool call failed: No response received",
				err:      errors.New("no response received from tool"),
				index:    i,
			}
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "tool_call_missing_response",
				"tool_call_id", toolCall.ID,
				"tool_name", toolCall.FunctionCall.Name,
			)
		}
	}

	// Process results in the same order as the original tool calls
	for _, result := range results {
		var content string
		if result.err != nil {
			// Format error as a message for the LLM
			content = fmt.Sprintf("Tool call failed: %s", result.err.Error())
			// Log the error for monitoring
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "tool_call_failed",
				"tool", result.toolCall.FunctionCall.Name,
				"err", result.err.Error(),
			)
		} else {
			content = result.response
		}

		// Create tool call response using the ID from the original tool call
		toolCallResponse := llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: result.toolCall.ID, // Use the ID from the original tool call
			Name:       result.toolCall.FunctionCall.Name,
			Content:    content,
		})

		// Log the tool call response for debugging
		logger.ContextKV(ctx, xlog.DEBUG,
			"agent", a.name,
			"status", "tool_call_response",
			"tool_call_id", result.toolCall.ID,
			"tool_name", result.toolCall.FunctionCall.Name,
			"content_length", len(content),
		)

		// Add the response immediately after its corresponding tool call
		messageHistory = append(messageHistory, toolCallResponse)

		if !cfg.SkipMessageHistory && !cfg.SkipToolHistory {
			lock.Lock()
			a.runMessages = append(a.runMessages, toolCallResponse)
			lock.Unlock()
		}
	}

	return executedCount, notFoundCount, messageHistory, nil
}
