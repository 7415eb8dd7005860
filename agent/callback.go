package agent

import (
	"context"

	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
)

// Callback receives agent run events.
// Implementations live in the callbacks package.
type Callback interface {
	OnAgentStart(ctx context.Context, agent IAgent, input string)
	OnAgentEnd(ctx context.Context, agent IAgent, input string, resp *llms.ContentResponse, messages []llms.Message)
	OnAgentError(ctx context.Context, agent IAgent, input string, err error, messages []llms.Message)
	OnAgentLLMCallStart(ctx context.Context, agent IAgent, llm llms.Model, messages []llms.Message)
	OnAgentLLMCallEnd(ctx context.Context, agent IAgent, llm llms.Model, resp *llms.ContentResponse)
	OnAgentLLMParseError(ctx context.Context, agent IAgent, input string, response string, err error)
	OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string)
	OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string)
	OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error)
	OnToolNotFound(ctx context.Context, agent IAgent, tool string)
}
