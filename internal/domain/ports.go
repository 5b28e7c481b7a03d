package domain

import "context"

// ToolCatalog provides tool definitions. Lookups never fail hard: a missing
// id is reported with ok == false.
type ToolCatalog interface {
	Get(id string) (ToolDefinition, bool)
	ListByCategory(categoryID string) []ToolDefinition
}

// StateStore persists JSON payloads under string keys on the local machine.
// Get returns ErrNotFound when the key was never written.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// Assistant sends a conversation to a generative model and returns the
// model's next reply.
type Assistant interface {
	Complete(ctx context.Context, transcript Transcript) (string, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers short messages to the user, like toast popups.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
