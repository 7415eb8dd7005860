package agent_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/callbacks"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/encoding"
	"github.com/effective-security/mcpagent/mocks/mockagent"
	"github.com/effective-security/mcpagent/mocks/mockllms"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testInput struct {
	Content *string `json:"content" jsonschema:"required"`
}

func (t testInput) GetContent() string {
	return *t.Content
}

type testOutput struct {
	Content string `json:"Content"`
}

func (t testOutput) GetContent() string {
	return t.Content
}

func Test_AgentTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are helpful and friendly AI assistant.", []string{})

	calls := 0
	// Create a mock LLM
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderOpenAI).AnyTimes()
	mockLLM.EXPECT().GetName().Return("test-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
			calls++
			return &llms.ContentResponse{
				Choices: []*llms.ContentChoice{
					{
						Content: fmt.Sprintf("This is a test answer %d.", calls),
					},
				},
			}, nil
		}).Times(2)

	var buf strings.Builder
	acfg := []agent.Option{
		agent.WithSystemPrompt(systemPrompt),
		agent.WithMode(encoding.ModePlainText),
		agent.WithCallback(callbacks.NewPrinter(&buf, callbacks.ModeVerbose)),
	}

	ag := agent.New[chatmodel.String](mockLLM, nil, acfg...)

	ctx := newTestContext()

	sysPrompt, err := ag.GetSystemPrompt(ctx, "", nil)
	require.NoError(t, err)
	assert.Contains(t, sysPrompt, "You are helpful and friendly AI assistant.")

	req := &agent.CallInput{
		Input: "What is a capital of largest country in Europe?",
	}
	apiResp, err := ag.Call(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, apiResp.Choices)

	tool, err := agent.NewAgentTool[chatmodel.InputRequest](ag)
	require.NoError(t, err)
	assert.Equal(t, ag.Name(), tool.Name())
	assert.Equal(t, ag.Description(), tool.Description())
	assert.NotNil(t, tool.Parameters())

	_, err = tool.CallAgent(ctx, "plain string")
	assert.True(t, errors.Is(err, chatmodel.ErrFailedUnmarshalInput))
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	input := llmutils.ToJSONIndent(&chatmodel.InputRequest{
		Input: "What is a capital of largest country in Europe?",
	})

	tres, err := tool.CallAgent(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "This is a test answer 2.", tres)
	assert.Contains(t, buf.String(), "Agent Start")
}

func Test_AgentTool_BuilderMethods(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are helpful and friendly AI assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderOpenAI).AnyTimes()
	ag := agent.New[testOutput](mockLLM, nil, agent.WithSystemPrompt(systemPrompt))

	tool, err := agent.NewAgentTool[testInput, testOutput](ag)
	require.NoError(t, err)

	// Test Name and Description
	assert.Equal(t, ag.Name(), tool.Name())
	assert.Equal(t, ag.Description(), tool.Description())

	// Test Parameters
	params := tool.Parameters()
	assert.NotNil(t, params)
}

func Test_AgentTool_Call(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are helpful and friendly AI assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderOpenAI).AnyTimes()
	mockLLM.EXPECT().GetName().Return("test-model").AnyTimes()
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{
					Content: `{"content":"Test response"}`,
				},
			},
		}, nil,
	).AnyTimes()

	ag := agent.New[testOutput](mockLLM, nil, agent.WithSystemPrompt(systemPrompt))
	tool, err := agent.NewAgentTool[testInput, testOutput](ag)
	require.NoError(t, err)

	ctx := newTestContext()

	result, err := tool.Call(ctx, `{"content":"test input"}`)
	require.NoError(t, err)
	assert.Equal(t, "Test response", result)
}

func Test_AgentTool_CallAgent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	systemPrompt := prompts.NewPromptTemplate("You are helpful and friendly AI assistant.", []string{})
	mockLLM := mockllms.NewMockModel(ctrl)
	mockLLM.EXPECT().GetProviderType().Return(llms.ProviderOpenAI).AnyTimes()
	mockLLM.EXPECT().GetName().Return("test-model").AnyTimes()

	// First call - success case
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&llms.ContentResponse{
			Choices: []*llms.ContentChoice{
				{
					Content: `{"content":"Test response"}`,
				},
			},
		}, nil,
	).Times(1)

	// Second call - error case
	mockLLM.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		nil, assert.AnError,
	).Times(1)

	ag := agent.New[testOutput](mockLLM, nil, agent.WithSystemPrompt(systemPrompt))
	tool, err := agent.NewAgentTool[testInput, testOutput](ag)
	require.NoError(t, err)

	ctx := newTestContext()

	// Test successful call
	result, err := tool.CallAgent(ctx, `{"content":"test input"}`)
	require.NoError(t, err)
	assert.Equal(t, "Test response", result)

	// Test error case
	_, err = tool.CallAgent(ctx, `{"content":"test input"}`)
	assert.Error(t, err)
}

func Test_AgentTool_WithName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAgent := mockagent.NewMockTypeableAgent[chatmodel.OutputResult](ctrl)
	mockAgent.EXPECT().Name().Return("test-agent").AnyTimes()
	mockAgent.EXPECT().Description().Return("test description").AnyTimes()

	tool, err := agent.NewAgentTool[chatmodel.OutputResult, chatmodel.OutputResult](mockAgent)
	require.NoError(t, err)

	// Test WithName
	at := tool.(*agent.AgentTool[chatmodel.OutputResult, chatmodel.OutputResult])
	at = at.WithName("test-tool")
	assert.Equal(t, "test-tool", at.Name())

	// Test WithDescription
	desc := "This is a test tool description"
	at = at.WithDescription(desc)
	assert.Equal(t, desc, at.Description())
}

func Test_AgentTool_RunError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAgent := mockagent.NewMockTypeableAgent[testOutput](ctrl)
	mockAgent.EXPECT().Name().Return("test-agent").AnyTimes()
	mockAgent.EXPECT().Description().Return("test description").AnyTimes()

	tool, err := agent.NewAgentTool[chatmodel.InputRequest, testOutput](mockAgent)
	require.NoError(t, err)

	expectedErr := fmt.Errorf("test error")
	mockAgent.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, expectedErr).Times(1)

	input := llmutils.ToJSONIndent(&chatmodel.InputRequest{Input: "test input"})
	_, err = tool.CallAgent(context.Background(), input)
	assert.Error(t, err)
	assert.Equal(t, expectedErr, err)
}
