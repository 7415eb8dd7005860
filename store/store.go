package store

import (
	"context"
	"time"

	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "store")

// ChatInfo describes a persisted chat.
type ChatInfo struct {
	TenantID  string         `json:"tenant_id"`
	ChatID    string         `json:"chat_id"`
	Title     string         `json:"title,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Messages  []llms.Message `json:"messages,omitempty"`
}

// MessageStore persists chat history.
// The tenant and chat are resolved from the chat context on the provided context,
// operations return chatmodel.ErrInvalidChatContext when it is missing.
type MessageStore interface {
	// Messages returns the chat history for the chat in the context.
	Messages(ctx context.Context) []llms.Message
	// Add appends a message to the chat history for the chat in the context.
	Add(ctx context.Context, msg llms.Message) error
	// Reset removes the chat history and metadata for the chat in the context.
	Reset(ctx context.Context) error
	// UpdateChat creates or updates the chat title and metadata
	// for the chat in the context.
	UpdateChat(ctx context.Context, title string, metadata map[string]any) (*ChatInfo, error)
	// ListChats returns the chat IDs for the tenant in the context.
	ListChats(ctx context.Context) ([]string, error)
	// GetChatInfo returns the chat info with messages,
	// empty id means the chat in the context.
	GetChatInfo(ctx context.Context, id string) (*ChatInfo, error)
	// GetChatTitle returns the chat title,
	// or an empty string if the chat is not persisted.
	GetChatTitle(ctx context.Context, id string) (string, error)
}

// MessageStoreManager extends MessageStore with tenant level management.
type MessageStoreManager interface {
	MessageStore

	ListTenants(ctx context.Context) ([]string, error)
	Cleanup(ctx context.Context, tenantID string, olderThan time.Duration) (uint32, error)
}
