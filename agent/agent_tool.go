package agent

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/invopop/jsonschema"
)

// IAgentTool is a tool backed by another agent.
// The run loop passes its per-call options through to the inner agent.
type IAgentTool interface {
	tools.ITool
	CallAgent(ctx context.Context, input string, options ...Option) (string, error)
}

type TypeableAgentTool[I any, O any] interface {
	IAgentTool
}

// AgentTool exposes an agent as a tool to other agents.
type AgentTool[I chatmodel.ContentProvider, O chatmodel.ContentProvider] struct {
	agent       TypeableAgent[O]
	name        string
	description string
	funcParams  *jsonschema.Schema
}

func NewAgentTool[I chatmodel.ContentProvider, O chatmodel.ContentProvider](agent TypeableAgent[O]) (TypeableAgentTool[I, O], error) {
	var def I
	sc, err := schema.New(reflect.TypeOf(def))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	t := &AgentTool[I, O]{
		agent:       agent,
		name:        agent.Name(),
		description: agent.Description(),
		funcParams:  sc.Parameters,
	}
	return t, nil
}

// WithName sets the name of the tool, when used in a prompt of another Agents or LLMs.
func (t *AgentTool[I, O]) WithName(name string) *AgentTool[I, O] {
	t.name = name
	return t
}

// WithDescription sets the description of the tool, to be used in the prompt of other Agents or LLMs.
func (t *AgentTool[I, O]) WithDescription(description string) *AgentTool[I, O] {
	t.description = description
	return t
}

func (t *AgentTool[I, O]) Name() string {
	return t.name
}

func (t *AgentTool[I, O]) Description() string {
	return t.description
}

func (t *AgentTool[I, O]) Parameters() *jsonschema.Schema {
	return t.funcParams
}

func (t *AgentTool[I, O]) Call(ctx context.Context, input string) (string, error) {
	return t.CallAgent(ctx, input)
}

func (t *AgentTool[I, O]) CallAgent(ctx context.Context, input string, options ...Option) (string, error) {
	var tin I
	if parser, ok := (any)(&tin).(chatmodel.InputParser); ok {
		if err := parser.ParseInput(input); err != nil {
			return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
		}
	} else {
		// Validate the input against the function parameters
		if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &tin); err != nil {
			return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
		}
	}

	var res O
	_, err := t.agent.Run(ctx, &CallInput{
		Input:   tin.GetContent(),
		Options: options,
	}, &res)
	if err != nil {
		if val, ok := (any)(&res).(chatmodel.IBaseResult); ok {
			val.SetClarification(llmutils.AddComment("tool", t.Name(), "error", err.Error()))
		} else {
			return "", err
		}
	}

	return chatmodel.Stringify(res), nil
}
