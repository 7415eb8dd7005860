package chatmodel

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// ErrInvalidChatContext is returned when the context does not carry a ChatContext.
var ErrInvalidChatContext = errors.New("invalid chat context")

// ChatContext is the context for the chat agent,
// It contains the tenant ID, chat ID, run ID, and app data
type ChatContext interface {
	GetTenantID() string
	GetChatID() string
	// SetChatID replaces the chat ID, for example when the server assigns one.
	SetChatID(chatID string)
	// RunID returns the unique ID of the current run.
	RunID() string
	// AppData returns immutable app data
	AppData() any
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type chatContext struct {
	lock     sync.RWMutex
	tenantID string
	chatID   string
	runID    string
	metadata sync.Map
	appData  any
}

func (c *chatContext) GetTenantID() string {
	return c.tenantID
}

func (c *chatContext) GetChatID() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.chatID
}

func (c *chatContext) SetChatID(chatID string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.chatID = chatID
}

func (c *chatContext) RunID() string {
	return c.runID
}

func (c *chatContext) AppData() any {
	return c.appData
}

func (c *chatContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *chatContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

func NewChatContext(tenantID, chatID string, appData any) ChatContext {
	return &chatContext{
		tenantID: values.StringsCoalesce(tenantID, NewChatID()),
		chatID:   values.StringsCoalesce(chatID, NewChatID()),
		runID:    NewChatID(),
		appData:  appData,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// NewFromContext returns a new background context carrying the same ChatContext,
// to detach long running operations from the caller's cancellation.
func NewFromContext(ctx context.Context) context.Context {
	res := context.Background()
	if chatCtx := GetChatContext(ctx); chatCtx != nil {
		res = WithChatContext(res, chatCtx)
	}
	return res
}

// GetChatID retrieves the chat ID from the provided context.
// If the context does not contain a ChatContext, it returns an empty string.
func GetChatID(ctx context.Context) string {
	if v := GetChatContext(ctx); v != nil {
		return v.GetChatID()
	}
	return ""
}

// SetChatID sets the chat ID on the ChatContext carried by the context.
// It returns ErrInvalidChatContext if the context does not have a ChatContext.
func SetChatID(ctx context.Context, chatID string) (context.Context, error) {
	chatCtx := GetChatContext(ctx)
	if chatCtx == nil {
		return ctx, errors.WithStack(ErrInvalidChatContext)
	}
	chatCtx.SetChatID(chatID)
	return ctx, nil
}

// GetTenantAndChatID returns the tenant ID and chat ID from the context.
// It returns ErrInvalidChatContext if the context does not have a ChatContext.
func GetTenantAndChatID(ctx context.Context) (string, string, error) {
	chatCtx := GetChatContext(ctx)
	if chatCtx == nil {
		return "", "", errors.WithStack(ErrInvalidChatContext)
	}
	return chatCtx.GetTenantID(), chatCtx.GetChatID(), nil
}

// NewChatID generates a new chat ID using the flake ID generator.
func NewChatID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
