package llms

// PromptCacheRetention selects how long a provider keeps a cached prompt prefix.
type PromptCacheRetention string

const (
	// PromptCacheRetentionInMemory keeps the cached prefix in memory only.
	PromptCacheRetentionInMemory PromptCacheRetention = "in-memory"
	// PromptCacheRetention24h keeps the cached prefix for 24 hours.
	PromptCacheRetention24h PromptCacheRetention = "24h"
)

// PromptCacheTTL is the time-to-live for a cache breakpoint.
type PromptCacheTTL string

const (
	// PromptCacheTTL5m is a 5 minute cache TTL.
	PromptCacheTTL5m PromptCacheTTL = "5m"
	// PromptCacheTTL1h is a 1 hour cache TTL.
	PromptCacheTTL1h PromptCacheTTL = "1h"
)

// PromptCacheTargetKind selects what a cache breakpoint points at.
type PromptCacheTargetKind string

const (
	// PromptCacheTargetMessagePart targets a part of a message by index.
	PromptCacheTargetMessagePart PromptCacheTargetKind = "message_part"
	// PromptCacheTargetTool targets a tool definition by index.
	PromptCacheTargetTool PromptCacheTargetKind = "tool"
)

// PromptCacheTarget identifies a message part or a tool in the request,
// using indexes into the caller-provided messages and tools.
type PromptCacheTarget struct {
	Kind PromptCacheTargetKind `json:"kind"`
	// MessageIndex and PartIndex are used when Kind is PromptCacheTargetMessagePart.
	MessageIndex int `json:"message_index,omitempty"`
	PartIndex    int `json:"part_index,omitempty"`
	// ToolIndex is used when Kind is PromptCacheTargetTool.
	ToolIndex int `json:"tool_index,omitempty"`
}

// PromptCacheBreakpoint marks a cacheable boundary in the request.
// Providers that cache by explicit markers (Anthropic) honor the target and TTL.
type PromptCacheBreakpoint struct {
	Target PromptCacheTarget `json:"target"`
	TTL    PromptCacheTTL    `json:"ttl,omitempty"`
}

// PromptCacheRequestPolicy configures request-level caching for providers
// that cache by key (OpenAI).
type PromptCacheRequestPolicy struct {
	// Key is an opaque cache routing key shared by requests with a common prefix.
	Key string `json:"key,omitempty"`
	// Retention selects how long the provider keeps the cached prefix.
	Retention PromptCacheRetention `json:"retention,omitempty"`
}

// PromptCachePolicy describes provider-agnostic prompt caching intent.
// Each provider applies the subset it supports and ignores the rest.
type PromptCachePolicy struct {
	Request     *PromptCacheRequestPolicy `json:"request,omitempty"`
	Breakpoints []PromptCacheBreakpoint   `json:"breakpoints,omitempty"`
}

// ReasoningEffort constrains how much reasoning a model performs before answering.
type ReasoningEffort string

const (
	// ReasoningEffortMinimal requests minimal reasoning.
	ReasoningEffortMinimal ReasoningEffort = "minimal"
	// ReasoningEffortLow requests low reasoning effort.
	ReasoningEffortLow ReasoningEffort = "low"
	// ReasoningEffortMedium requests medium reasoning effort.
	ReasoningEffortMedium ReasoningEffort = "medium"
	// ReasoningEffortHigh requests high reasoning effort.
	ReasoningEffortHigh ReasoningEffort = "high"
)
