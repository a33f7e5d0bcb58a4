package interfaces

import "context"

// SessionStore is key-value persistence scoped to one interactive session.
// The hosting shell provides it; the session cache treats it as its backing
// store. Get returns ("", nil) for absent fields.
type SessionStore interface {
	// Get retrieves a named field, or empty string when unset
	Get(ctx context.Context, field string) (string, error)

	// Set stores a named field
	Set(ctx context.Context, field, value string) error

	// Delete removes a named field
	Delete(ctx context.Context, field string) error

	// Clear removes all fields for the session
	Clear(ctx context.Context) error

	// Close releases the backing store
	Close() error
}
