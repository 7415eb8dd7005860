package mcpclient

import (
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"sigs.k8s.io/yaml"
)

// Transport kinds accepted in ServerConfig.Transport.
const (
	TransportStdio      = "stdio"
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// Config describes the MCP servers the client can connect to,
// keyed by the server name.
type Config struct {
	MCPServers map[string]*ServerConfig `json:"mcpServers" yaml:"mcpServers"`
}

// ServerConfig describes how to reach a single MCP server.
// Either Command or URL must be set.
type ServerConfig struct {
	// Command is the executable to launch for a stdio server.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	// Args are passed to the command.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Env is appended to the command environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// URL is the endpoint of an HTTP server.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
	// Headers are added to every HTTP request, such as Authorization.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Transport is stdio, sse or streamable.
	// When empty, it is inferred: Command means stdio,
	// a URL ending in /sse means sse, any other URL means streamable.
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
}

// LoadConfig loads the configuration from a JSON or YAML file,
// with environment variables expanded.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load MCP config: %s", file)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig parses the configuration from JSON or YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	cfg := new(Config)
	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse MCP config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every server entry can produce a transport.
func (c *Config) Validate() error {
	if len(c.MCPServers) == 0 {
		return errors.New("no MCP servers configured")
	}
	for name, sc := range c.MCPServers {
		if sc == nil {
			return errors.Newf("server %q: empty configuration", name)
		}
		if _, err := sc.ResolveTransport(); err != nil {
			return errors.WithMessagef(err, "server %q", name)
		}
	}
	return nil
}

// ResolveTransport returns the transport kind for the server,
// inferring it from Command and URL when not set explicitly.
func (c *ServerConfig) ResolveTransport() (string, error) {
	switch c.Transport {
	case TransportStdio:
		if c.Command == "" {
			return "", errors.New("stdio transport requires command")
		}
		return TransportStdio, nil
	case TransportSSE, TransportStreamable:
		if c.URL == "" {
			return "", errors.Newf("%s transport requires url", c.Transport)
		}
		return c.Transport, nil
	case "":
	default:
		return "", errors.Newf("unsupported transport: %s", c.Transport)
	}

	if c.Command != "" {
		return TransportStdio, nil
	}
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return "", errors.WithMessagef(err, "invalid url: %s", c.URL)
		}
		if strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/sse") {
			return TransportSSE, nil
		}
		return TransportStreamable, nil
	}
	return "", errors.New("either command or url must be set")
}

// transport builds the SDK transport for the server.
func (c *ServerConfig) transport() (mcp.Transport, error) {
	kind, err := c.ResolveTransport()
	if err != nil {
		return nil, err
	}

	switch kind {
	case TransportStdio:
		cmd := exec.Command(c.Command, c.Args...)
		cmd.Env = os.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		return &mcp.CommandTransport{Command: cmd}, nil
	case TransportSSE:
		return &mcp.SSEClientTransport{
			Endpoint:   c.URL,
			HTTPClient: httpClientWithHeaders(c.Headers),
		}, nil
	default:
		return &mcp.StreamableClientTransport{
			Endpoint:   c.URL,
			HTTPClient: httpClientWithHeaders(c.Headers),
		}, nil
	}
}

// httpClientWithHeaders returns a client injecting the configured headers,
// or nil when there are none, letting the SDK use http.DefaultClient.
func httpClientWithHeaders(headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: headers,
		},
	}
}

// headerRoundTripper adds static headers to every request, the SDK does not
// expose a header hook on its HTTP transports.
type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range rt.headers {
		clone.Header.Set(k, v)
	}
	base := rt.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
