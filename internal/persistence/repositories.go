package persistence

import "context"

// SessionRepository stores the single process-wide session as key/value
// fields. Replace swaps the whole set atomically.
type SessionRepository interface {
	LoadSessionFields(ctx context.Context) ([]SessionField, error)
	ReplaceSessionFields(ctx context.Context, fields []SessionField) error
	DeleteSessionFields(ctx context.Context) error
}
