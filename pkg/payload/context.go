package payload

import (
	"context"
)

type contextKey int

const (
	keyPayload contextKey = iota
)

// WithContext returns a new context carrying the payload.
// A context-scoped payload takes precedence over the shared copy held by the
// adapter, which isolates concurrent runs on one agent.
func WithContext(ctx context.Context, p Payload) context.Context {
	return context.WithValue(ctx, keyPayload, p)
}

// FromContext returns the payload carried by the context, or nil.
func FromContext(ctx context.Context) Payload {
	if p, ok := ctx.Value(keyPayload).(Payload); ok {
		return p
	}
	return nil
}
