// Package adapter converts the tools declared by connected MCP servers into
// agent tools. Before a converted tool executes, the adapter merges the
// configured payload into the call arguments, so tools receive caller
// metadata the model never sees.
package adapter

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/mcpclient"
	"github.com/effective-security/mcpagent/pkg/payload"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "adapter")

// Option configures the Adapter.
type Option func(*Adapter)

// WithPayload sets the initial payload, the Adapter keeps its own copy.
func WithPayload(p payload.Payload) Option {
	return func(a *Adapter) {
		a.payload = p.Clone()
	}
}

// WithServerPrefix prefixes converted tool names with the server name,
// to disambiguate tools with the same name on different servers.
func WithServerPrefix(prefix bool) Option {
	return func(a *Adapter) {
		a.serverPrefix = prefix
	}
}

// WithAllowedTools restricts conversion to the named tools.
func WithAllowedTools(names ...string) Option {
	return func(a *Adapter) {
		a.allowed = make(map[string]bool, len(names))
		for _, name := range names {
			a.allowed[name] = true
		}
	}
}

// WithDisallowedTools excludes the named tools from conversion.
func WithDisallowedTools(names ...string) Option {
	return func(a *Adapter) {
		a.denied = make(map[string]bool, len(names))
		for _, name := range names {
			a.denied[name] = true
		}
	}
}

// Adapter converts MCP tools into tools.ITool.
// The payload copy it holds is shared by every converted tool and must be
// kept in sync by the owning agent, the Adapter does not observe it.
type Adapter struct {
	client       *mcpclient.Client
	serverPrefix bool
	allowed      map[string]bool
	denied       map[string]bool

	mu      sync.RWMutex
	payload payload.Payload
}

// New returns an Adapter over the client's sessions.
func New(client *mcpclient.Client, opts ...Option) *Adapter {
	a := &Adapter{
		client: client,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetPayload replaces the payload copy used for subsequent tool calls.
// A nil payload clears it.
func (a *Adapter) SetPayload(p payload.Payload) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payload = p.Clone()
}

// GetPayload returns a copy of the current payload.
func (a *Adapter) GetPayload() payload.Payload {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload.Clone()
}

func (a *Adapter) currentPayload() payload.Payload {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.payload
}

// Tools converts the tools of every connected server.
func (a *Adapter) Tools(ctx context.Context) ([]tools.ITool, error) {
	var list []tools.ITool
	for _, server := range a.client.ServerNames() {
		if a.client.GetSession(server) == nil {
			continue
		}
		converted, err := a.ToolsForServer(ctx, server)
		if err != nil {
			return nil, err
		}
		list = append(list, converted...)
	}
	return list, nil
}

// ToolsForServer converts the tools declared by the named server.
// The server must have an active session.
func (a *Adapter) ToolsForServer(ctx context.Context, server string) ([]tools.ITool, error) {
	sess := a.client.GetSession(server)
	if sess == nil {
		return nil, errors.Newf("no active session for server %q", server)
	}

	mcpTools, err := sess.Tools(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]tools.ITool, 0, len(mcpTools))
	for _, t := range mcpTools {
		if !a.includeTool(t.Name) {
			continue
		}
		converted, err := a.convert(sess, server, t)
		if err != nil {
			return nil, err
		}
		list = append(list, converted)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "tools_converted",
		"server", server,
		"count", len(list),
	)
	return list, nil
}

func (a *Adapter) includeTool(name string) bool {
	if a.denied[name] {
		return false
	}
	if a.allowed != nil && !a.allowed[name] {
		return false
	}
	return true
}

func (a *Adapter) convert(sess *mcpclient.Session, server string, t *mcp.Tool) (tools.ITool, error) {
	params, err := schema.FromAny(t.InputSchema)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid input schema for tool %q on server %q", t.Name, server)
	}
	name := t.Name
	if a.serverPrefix {
		name = server + "." + t.Name
	}
	return &mcpTool{
		adapter:     a,
		session:     sess,
		server:      server,
		name:        name,
		remoteName:  t.Name,
		description: t.Description,
		params:      params,
	}, nil
}
