// Package mcpclient manages connections to MCP servers: it loads the server
// configuration, builds the matching transport for each server and keeps one
// session per server with a cached tool list.
package mcpclient

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "mcpclient")

const (
	clientName    = "mcpagent"
	clientVersion = "1.0.0"
)

// Option configures the Client.
type Option func(*Client)

// WithImplementation overrides the client identity sent during the MCP handshake.
func WithImplementation(name, version string) Option {
	return func(c *Client) {
		c.impl = &mcp.Implementation{Name: name, Version: version}
	}
}

// Client manages sessions to the configured MCP servers.
type Client struct {
	cfg  *Config
	impl *mcp.Implementation

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewClient returns a client for the given configuration.
func NewClient(cfg *Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		impl:     &mcp.Implementation{Name: clientName, Version: clientVersion},
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServerNames returns the sorted names of the configured servers.
func (c *Client) ServerNames() []string {
	names := make([]string, 0, len(c.cfg.MCPServers))
	for name := range c.cfg.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateSession connects to the named server.
// An already connected session is returned as is.
func (c *Client) CreateSession(ctx context.Context, server string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.sessions[server]; s != nil {
		return s, nil
	}

	sc := c.cfg.MCPServers[server]
	if sc == nil {
		return nil, errors.Newf("server %q is not configured", server)
	}
	transport, err := sc.transport()
	if err != nil {
		return nil, errors.WithMessagef(err, "server %q", server)
	}

	s := &Session{name: server}
	client := mcp.NewClient(c.impl, &mcp.ClientOptions{
		ToolListChangedHandler: func(_ context.Context, _ *mcp.ToolListChangedRequest) {
			s.invalidateTools()
		},
	})

	cs, err := client.Connect(ctx, transport, nil)
	if err != nil {
		metricskey.StatsMCPSessionsFailed.IncrCounter(1, server)
		return nil, errors.WithMessagef(err, "failed to connect to server %q", server)
	}
	metricskey.StatsMCPSessionsCreated.IncrCounter(1, server)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "session_created",
		"server", server,
	)

	s.session = cs
	c.sessions[server] = s
	return s, nil
}

// CreateAllSessions connects to every configured server.
// Sessions created before a failure are kept open.
func (c *Client) CreateAllSessions(ctx context.Context) error {
	for _, server := range c.ServerNames() {
		if _, err := c.CreateSession(ctx, server); err != nil {
			return err
		}
	}
	return nil
}

// GetSession returns the active session for the server, or nil.
func (c *Client) GetSession(server string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[server]
}

// CloseSession closes and forgets the session for the server.
func (c *Client) CloseSession(ctx context.Context, server string) error {
	c.mu.Lock()
	s := c.sessions[server]
	delete(c.sessions, server)
	c.mu.Unlock()

	if s == nil {
		return nil
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "session_closed",
		"server", server,
	)
	return s.Close()
}

// CloseAllSessions closes every active session,
// returning the combined close errors.
func (c *Client) CloseAllSessions(ctx context.Context) error {
	var err error
	for _, server := range c.ServerNames() {
		err = errors.CombineErrors(err, c.CloseSession(ctx, server))
	}
	return err
}

// Session wraps a connected MCP client session.
type Session struct {
	name    string
	session *mcp.ClientSession

	mu    sync.Mutex
	tools []*mcp.Tool
}

// Name returns the configured server name.
func (s *Session) Name() string {
	return s.name
}

// Tools returns the tools the server declares.
// The list is cached until the server notifies a tool list change.
func (s *Session) Tools(ctx context.Context) ([]*mcp.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tools != nil {
		return s.tools, nil
	}

	var list []*mcp.Tool
	var cursor string
	for {
		res, err := s.session.ListTools(ctx, &mcp.ListToolsParams{Cursor: cursor})
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to list tools on server %q", s.name)
		}
		list = append(list, res.Tools...)
		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	if list == nil {
		list = []*mcp.Tool{}
	}
	s.tools = list
	return list, nil
}

// CallTool invokes the named tool with the given arguments.
// Transport and server errors are returned unchanged.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	return s.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
}

// Close terminates the session.
func (s *Session) Close() error {
	return s.session.Close()
}

func (s *Session) invalidateTools() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = nil
}
