package adapter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/mcpclient"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/pkg/payload"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mcpTool delegates Call to a remote MCP tool, injecting the payload
// into the arguments first.
type mcpTool struct {
	adapter     *Adapter
	session     *mcpclient.Session
	server      string
	name        string
	remoteName  string
	description string
	params      *jsonschema.Schema
}

var _ tools.ITool = (*mcpTool)(nil)

func (t *mcpTool) Name() string {
	return t.name
}

func (t *mcpTool) Description() string {
	return t.description
}

func (t *mcpTool) Parameters() *jsonschema.Schema {
	return t.params
}

// Call decodes the model-supplied arguments, merges the payload into them
// without overwriting existing keys, and forwards the call to the server.
// Errors from the server call are returned unchanged.
func (t *mcpTool) Call(ctx context.Context, input string) (string, error) {
	args := map[string]any{}
	if strings.TrimSpace(input) != "" {
		err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &args)
		if err != nil {
			return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
		}
	}

	// A context-scoped payload wins over the shared adapter copy,
	// isolating concurrent runs on one agent.
	p := payload.FromContext(ctx)
	if p == nil {
		p = t.adapter.currentPayload()
	}
	args, injected := p.InjectArgs(args)
	if injected > 0 {
		metricskey.StatsPayloadKeysInjected.IncrCounter(float64(injected), t.remoteName)
	}
	// Key counts only, payload values are never logged.
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tool_call",
		"server", t.server,
		"tool", t.remoteName,
		"injected_keys", injected,
	)

	res, err := t.session.CallTool(ctx, t.remoteName, args)
	if err != nil {
		return "", err
	}
	text := textContent(res)
	if res.IsError {
		return "", errors.Newf("tool %q failed: %s", t.remoteName, text)
	}
	return text, nil
}

// textContent joins the text blocks of a tool result.
// Non-text content is ignored.
func textContent(res *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
