package persistence

import "time"

// SessionField is one persisted key of the dashboard session.
type SessionField struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
