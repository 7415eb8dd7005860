// Package payload carries request metadata, such as access tokens and tenant
// identifiers, that is merged into MCP tool call arguments without ever being
// shown to the model. Values are opaque to this package and must be
// JSON-marshalable; they are never logged.
package payload

import (
	"sort"
)

// Payload is a string-keyed map of opaque values attached to tool calls.
// A nil Payload is valid and means no payload.
type Payload map[string]any

// Clone returns a copy of the payload. The values are shared, only the
// top-level map is copied. Clone of a nil payload returns nil.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	res := make(Payload, len(p))
	for k, v := range p {
		res[k] = v
	}
	return res
}

// Keys returns the sorted list of payload keys.
// Keys are safe to log, values are not.
func (p Payload) Keys() []string {
	if len(p) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether the payload has no keys.
func (p Payload) IsEmpty() bool {
	return len(p) == 0
}

// InjectArgs merges the payload into the tool call arguments.
// A payload key is added only when the arguments do not already contain it,
// the model-supplied arguments always win. It returns the merged arguments
// and the number of injected keys. The input map is never mutated.
// An empty payload returns the arguments unchanged.
func (p Payload) InjectArgs(args map[string]any) (map[string]any, int) {
	if len(p) == 0 {
		return args, 0
	}
	res := make(map[string]any, len(args)+len(p))
	for k, v := range args {
		res[k] = v
	}
	injected := 0
	for k, v := range p {
		if _, ok := res[k]; !ok {
			res[k] = v
			injected++
		}
	}
	return res, injected
}
