package prompts

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
)

// FormatPrompter is an interface for formatting a map of values into a prompt.
type FormatPrompter interface {
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	GetInputVariables() []string
}

// PromptTemplate renders a Go text/template with the sprig function map.
type PromptTemplate struct {
	// Template is the prompt template.
	Template string
	// InputVariables is a list of variable names the prompt template expects.
	InputVariables []string
	// PartialVariables are default values merged into the user inputs,
	// user inputs take precedence.
	PartialVariables map[string]any
}

var _ FormatPrompter = PromptTemplate{}

// NewPromptTemplate returns a new prompt template.
func NewPromptTemplate(template string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       template,
		InputVariables: inputVars,
	}
}

// Format renders the template with the given values.
// A referenced variable missing from the values is an error.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	resolved := values
	if len(p.PartialVariables) > 0 {
		resolved = llmutils.MergeInputs(p.PartialVariables, values)
	}
	return RenderTemplate(p.Template, resolved)
}

// FormatPrompt renders the template and returns it as a prompt value.
func (p PromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formatted, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(formatted), nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p PromptTemplate) GetInputVariables() []string {
	return p.InputVariables
}

// StringPromptValue is a prompt value that is a string.
type StringPromptValue string

var _ llms.PromptValue = StringPromptValue("")

func (v StringPromptValue) String() string {
	return string(v)
}

// Messages returns a single message with the human role.
func (v StringPromptValue) Messages() []llms.Message {
	return []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, string(v)),
	}
}

// RenderTemplate renders a Go text/template with the sprig function map.
func RenderTemplate(tmpl string, values map[string]any) (string, error) {
	t, err := template.New("template").
		Option("missingkey=error").
		Funcs(sprig.FuncMap()).
		Parse(tmpl)
	if err != nil {
		return "", errors.WithMessage(err, "failed to parse template")
	}
	var sb strings.Builder
	if err := t.Execute(&sb, values); err != nil {
		return "", errors.WithMessage(err, "failed to execute template")
	}
	return sb.String(), nil
}
