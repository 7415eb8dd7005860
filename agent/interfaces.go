// Package agent runs LLM agents whose tools come from MCP servers.
// The agent may hold a payload, a string-keyed map of caller metadata that is
// merged into every MCP tool call's arguments before the tool executes,
// without ever being exposed to the model.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/payload"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "agent")

//go:generate mockgen -source=interfaces.go -destination=../mocks/mockagent/agent_mock.gen.go -package mockagent

// IAgent describes an agent to other agents and LLMs.
type IAgent interface {
	// Name returns the name of the Agent.
	Name() string
	// Description returns the description of the Agent, to be used in the
	// prompt of other Agents or LLMs. Should not exceed LLM model limit.
	Description() string
	// FormatPrompt renders the system prompt with the given inputs.
	FormatPrompt(promptInputs map[string]any) (llms.PromptValue, error)
	// GetPromptInputVariables returns the variables the system prompt expects.
	GetPromptInputVariables() []string
}

// HasCallback is implemented by agents with a configured callback.
type HasCallback interface {
	GetCallback() Callback
}

// TypeableAgent is an agent with a typed structured output.
type TypeableAgent[O any] interface {
	IAgent
	// Run executes the agent and parses the final response into the output.
	Run(ctx context.Context, input *CallInput, optionalOutputType *O) (*llms.ContentResponse, error)
}

// ProvidePromptInputsFunc resolves extra prompt inputs at run time.
type ProvidePromptInputsFunc func(ctx context.Context, input string) (map[string]any, error)

// CallInput is the input of a single agent run.
type CallInput struct {
	// Input is the task or question for the agent.
	Input string
	// PromptInputs are merged into the system prompt template inputs.
	PromptInputs map[string]any
	// Messages are appended to the message history after the input.
	Messages []llms.Message
	// Payload, when not nil, replaces the agent's payload before the run,
	// and stays in effect after the run completes.
	Payload payload.Payload
	// Options override the agent configuration for this call.
	Options []Option
}

// GetDescriptions returns a markdown list describing the agents,
// to be used in the prompt of an orchestrating agent.
func GetDescriptions(list ...IAgent) string {
	var ts strings.Builder
	for _, item := range list {
		ts.WriteString(fmt.Sprintf("- `%s`: %s\n", item.Name(), item.Description()))
	}
	return ts.String()
}

// MapAgents returns the agents keyed by name.
func MapAgents(list ...IAgent) map[string]IAgent {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]IAgent, len(list))
	for _, a := range list {
		m[a.Name()] = a
	}
	return m
}
