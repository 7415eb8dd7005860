package prompts

import (
	"github.com/effective-security/mcpagent/pkg/llms"
)

// MessageFormatter is an interface for formatting a map of values into a list
// of messages.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// MessagePromptTemplate is a prompt template that formats a single message
// with the given role.
type MessagePromptTemplate struct {
	role   llms.Role
	prompt PromptTemplate
}

var _ MessageFormatter = MessagePromptTemplate{}

// NewSystemMessagePromptTemplate returns a prompt template for a system message.
func NewSystemMessagePromptTemplate(template string, inputVariables []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		role:   llms.RoleSystem,
		prompt: NewPromptTemplate(template, inputVariables),
	}
}

// NewHumanMessagePromptTemplate returns a prompt template for a human message.
func NewHumanMessagePromptTemplate(template string, inputVariables []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		role:   llms.RoleHuman,
		prompt: NewPromptTemplate(template, inputVariables),
	}
}

// NewAIMessagePromptTemplate returns a prompt template for an AI message.
func NewAIMessagePromptTemplate(template string, inputVariables []string) MessagePromptTemplate {
	return MessagePromptTemplate{
		role:   llms.RoleAI,
		prompt: NewPromptTemplate(template, inputVariables),
	}
}

// FormatMessages renders the template into a single message with the
// configured role.
func (p MessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.prompt.Format(values)
	if err != nil {
		return nil, err
	}
	return []llms.Message{llms.MessageFromTextParts(p.role, text)}, nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p MessagePromptTemplate) GetInputVariables() []string {
	return p.prompt.InputVariables
}

// ChatPromptTemplate is a prompt template for chat messages.
type ChatPromptTemplate struct {
	// Messages is the list of the messages to be formatted.
	Messages []MessageFormatter
}

var _ FormatPrompter = ChatPromptTemplate{}

// NewChatPromptTemplate creates a new chat prompt template from a list of
// message formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{
		Messages: messages,
	}
}

// FormatPrompt formats the messages with the values and returns them as a
// chat prompt value.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formatted := make([]llms.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		msgs, err := m.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, msgs...)
	}
	return ChatPromptValue(formatted), nil
}

// GetInputVariables returns the union of the input variables of all messages.
func (p ChatPromptTemplate) GetInputVariables() []string {
	var vars []string
	seen := map[string]bool{}
	for _, m := range p.Messages {
		for _, v := range m.GetInputVariables() {
			if !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		}
	}
	return vars
}
