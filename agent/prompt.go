package agent

import (
	"github.com/effective-security/mcpagent/pkg/prompts"
)

const defaultSystemPromptTemplate = `You are a helpful assistant.
You have access to the following tools:

{{.tools}}

Use the tools when they help you complete the user's task.
Call a tool only with the exact name and the arguments its schema requires.
When no tool is needed, answer directly.`

// DefaultSystemPrompt is used when no system prompt is configured.
// The "tools" variable is filled with the descriptions of the registered tools.
var DefaultSystemPrompt = prompts.NewPromptTemplate(defaultSystemPromptTemplate, []string{"tools"})
