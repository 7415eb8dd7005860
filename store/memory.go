package store

import (
	"context"
	"sync"
	"time"

	"github.com/effective-security/mcpagent/chatmodel"
	"github.com/effective-security/mcpagent/pkg/llms"
)

type chatState struct {
	info     *ChatInfo
	messages []llms.Message
}

type inMemory struct {
	mu sync.RWMutex
	// tenant ID => chat ID => chat state
	tenants map[string]map[string]*chatState
}

func NewMemoryStore() MessageStore {
	return &inMemory{}
}

func (m *inMemory) Messages(ctx context.Context) []llms.Message {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	chat := m.tenants[tenantID][chatID]
	if chat == nil {
		return nil
	}
	return chat.messages
}

func (m *inMemory) Add(ctx context.Context, msg llms.Message) error {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.chat(tenantID, chatID)
	chat.messages = append(chat.messages, msg)
	chat.info.UpdatedAt = time.Now()
	return nil
}

func (m *inMemory) Reset(ctx context.Context) error {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if chats := m.tenants[tenantID]; chats != nil {
		delete(chats, chatID)
	}
	return nil
}

func (m *inMemory) UpdateChat(ctx context.Context, title string, metadata map[string]any) (*ChatInfo, error) {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.chat(tenantID, chatID)
	if title != "" {
		chat.info.Title = title
	}
	if metadata != nil {
		if chat.info.Metadata == nil {
			chat.info.Metadata = make(map[string]any)
		}
		for k, v := range metadata {
			chat.info.Metadata[k] = v
		}
	}
	chat.info.UpdatedAt = time.Now()

	info := *chat.info
	return &info, nil
}

func (m *inMemory) ListChats(ctx context.Context) ([]string, error) {
	tenantID, _, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id := range m.tenants[tenantID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *inMemory) GetChatInfo(ctx context.Context, id string) (*ChatInfo, error) {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = chatID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	chat := m.chat(tenantID, id)
	info := *chat.info
	info.Messages = chat.messages
	return &info, nil
}

func (m *inMemory) GetChatTitle(ctx context.Context, id string) (string, error) {
	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = chatID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	chat := m.tenants[tenantID][id]
	if chat == nil {
		return "", nil
	}
	return chat.info.Title, nil
}

// chat returns the chat state, creating it on first use.
// The caller must hold the write lock.
func (m *inMemory) chat(tenantID, chatID string) *chatState {
	if m.tenants == nil {
		m.tenants = make(map[string]map[string]*chatState)
	}
	chats := m.tenants[tenantID]
	if chats == nil {
		chats = make(map[string]*chatState)
		m.tenants[tenantID] = chats
	}
	chat := chats[chatID]
	if chat == nil {
		now := time.Now()
		chat = &chatState{
			info: &ChatInfo{
				TenantID:  tenantID,
				ChatID:    chatID,
				Title:     "New Chat",
				CreatedAt: now,
				UpdatedAt: now,
				Metadata:  make(map[string]any),
			},
		}
		chats[chatID] = chat
	}
	return chat
}
