package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/mcpagent/agent"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ agent.Callback = (*Noop)(nil)
	_ agent.Callback = (*Printer)(nil)
	_ agent.Callback = (*PackageLogger)(nil)
	_ agent.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []agent.Callback
}

func NewFanout(callbacks ...agent.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback agent.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnAgentStart(ctx context.Context, ag agent.IAgent, input string) {
	for _, callback := range l.callbacks {
		callback.OnAgentStart(ctx, ag, input)
	}
}

func (l *Fanout) OnAgentEnd(ctx context.Context, ag agent.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentEnd(ctx, ag, input, resp, messages)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, tool, agentName, input)
	}
}

func (l *Fanout) OnAgentLLMParseError(ctx context.Context, ag agent.IAgent, input string, response string, err error) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMParseError(ctx, ag, input, response, err)
	}
}

func (l *Fanout) OnAgentError(ctx context.Context, ag agent.IAgent, input string, err error, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentError(ctx, ag, input, err, messages)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, tool, agentName, input, output)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, ag agent.IAgent, tool string) {
	for _, callback := range l.callbacks {
		callback.OnToolNotFound(ctx, ag, tool)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, tool, agentName, input, err)
	}
}

func (l *Fanout) OnAgentLLMCallStart(ctx context.Context, ag agent.IAgent, llm llms.Model, messages []llms.Message) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMCallStart(ctx, ag, llm, messages)
	}
}

func (l *Fanout) OnAgentLLMCallEnd(ctx context.Context, ag agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	for _, callback := range l.callbacks {
		callback.OnAgentLLMCallEnd(ctx, ag, llm, resp)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnAgentStart(ctx context.Context, ag agent.IAgent, input string) {
}
func (l *Noop) OnAgentEnd(ctx context.Context, ag agent.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
}
func (l *Noop) OnAgentError(ctx context.Context, ag agent.IAgent, input string, err error, messages []llms.Message) {
}
func (l *Noop) OnAgentLLMParseError(ctx context.Context, ag agent.IAgent, input string, response string, err error) {
}
func (l *Noop) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {}
func (l *Noop) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
}
func (l *Noop) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
}
func (l *Noop) OnAgentLLMCallStart(ctx context.Context, ag agent.IAgent, llm llms.Model, messages []llms.Message) {
}
func (l *Noop) OnAgentLLMCallEnd(ctx context.Context, ag agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
}
func (l *Noop) OnToolNotFound(ctx context.Context, ag agent.IAgent, tool string) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnAgentStart(ctx context.Context, ag agent.IAgent, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Start: %s\n", ag.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnAgentEnd(ctx context.Context, ag agent.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent End: %s\n", ag.Name())
	if l.Mode == ModeVerbose {
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				fmt.Fprintln(l.Out, choice.Content)
			}
		}
	}
}

func (l *Printer) OnAgentError(ctx context.Context, ag agent.IAgent, input string, err error, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent Error: %s: %s\n", ag.Name(), err.Error())
}

func (l *Printer) OnAgentLLMParseError(ctx context.Context, ag agent.IAgent, input string, response string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Parse Error: %s: %s\n", ag.Name(), err.Error())
	fmt.Fprintf(l.Out, "Response: %s\n", response)
}

func (l *Printer) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s (%s)\n", tool.Name(), agentName)
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s (%s)\n", tool.Name(), agentName)
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s (%s): %s\n", tool.Name(), agentName, err.Error())
}

func (l *Printer) OnAgentLLMCallStart(ctx context.Context, ag agent.IAgent, llm llms.Model, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Call: %s: %s model, %d messages\n", ag.Name(), llm.GetName(), len(messages))
}

func (l *Printer) OnAgentLLMCallEnd(ctx context.Context, ag agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Agent LLM Call End: %s: %s model, %d messages\n", ag.Name(), llm.GetName(), len(resp.Choices))
}

func (l *Printer) OnToolNotFound(ctx context.Context, ag agent.IAgent, tool string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Not Found: %s\n", tool)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnAgentStart(ctx context.Context, ag agent.IAgent, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_start",
		"agent", ag.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnAgentEnd(ctx context.Context, ag agent.IAgent, input string, resp *llms.ContentResponse, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_end",
		"agent", ag.Name())
	for _, choice := range resp.Choices {
		if choice.Content != "" {
			l.logger.ContextKV(ctx, xlog.DEBUG, "result", choice.Content)
		}
	}
}

func (l *PackageLogger) OnAgentError(ctx context.Context, ag agent.IAgent, input string, err error, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "agent_error",
		"agent", ag.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnAgentLLMParseError(ctx context.Context, ag agent.IAgent, input string, response string, err error) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_parse_error",
		"agent", ag.Name(),
		"err", err.Error(),
		"response", response,
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, agentName, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"agent", agentName,
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, agentName, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"agent", agentName,
		"tool", tool.Name(),
		"output", output,
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, agentName, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"agent", agentName,
		"tool", tool.Name(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnAgentLLMCallStart(ctx context.Context, ag agent.IAgent, llm llms.Model, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_call_start",
		"agent", ag.Name(),
		"model", llm.GetName(),
		"messages", len(messages),
	)
}

func (l *PackageLogger) OnAgentLLMCallEnd(ctx context.Context, ag agent.IAgent, llm llms.Model, resp *llms.ContentResponse) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "agent_llm_call_end",
		"agent", ag.Name(),
		"model", llm.GetName(),
		"messages", len(resp.Choices),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, ag agent.IAgent, tool string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_not_found",
		"agent", ag.Name(),
		"tool", tool,
	)
}
