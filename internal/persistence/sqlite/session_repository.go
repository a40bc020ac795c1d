package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/campus-events/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
// Values of the sealed keys are encrypted before they touch disk.
type SessionRepository struct {
	pool       *ConnectionPool
	sealer     *Sealer
	sealedKeys map[string]bool
	now        func() time.Time
}

// NewSessionRepository creates a session repository over pool.
func NewSessionRepository(pool *ConnectionPool, sealer *Sealer, sealedKeys ...string) *SessionRepository {
	keys := make(map[string]bool, len(sealedKeys))
	for _, key := range sealedKeys {
		keys[key] = true
	}
	return &SessionRepository{
		pool:       pool,
		sealer:     sealer,
		sealedKeys: keys,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// LoadSessionFields returns every stored field ordered by key.
func (r *SessionRepository) LoadSessionFields(ctx context.Context) ([]persistence.SessionField, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT key, value, sealed, updated_at
		FROM session_fields
		ORDER BY key ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var fields []persistence.SessionField
	for rows.Next() {
		var (
			field     persistence.SessionField
			sealed    bool
			updatedAt string
		)
		if err := rows.Scan(&field.Key, &field.Value, &sealed, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan session field: %w", err)
		}
		if sealed {
			if r.sealer == nil {
				return nil, fmt.Errorf("session field %s: %w", field.Key, persistence.ErrSealed)
			}
			plain, err := r.sealer.Open(field.Value)
			if err != nil {
				return nil, fmt.Errorf("session field %s: %w", field.Key, err)
			}
			field.Value = plain
		}
		if field.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session fields: %w", err)
	}
	return fields, nil
}

// ReplaceSessionFields swaps the stored set for fields in one transaction.
// Fields with empty values are not stored.
func (r *SessionRepository) ReplaceSessionFields(ctx context.Context, fields []persistence.SessionField) error {
	type row struct {
		key    string
		value  string
		sealed bool
	}
	prepared := make([]row, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			return persistence.ErrConstraintViolation
		}
		if field.Value == "" {
			continue
		}
		value := field.Value
		sealed := r.sealedKeys[key] && r.sealer != nil
		if sealed {
			var err error
			if value, err = r.sealer.Seal(value); err != nil {
				return fmt.Errorf("seal session field %s: %w", key, err)
			}
		}
		prepared = append(prepared, row{key: key, value: value, sealed: sealed})
	}

	stamp := r.now().Format(time.RFC3339)
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_fields`); err != nil {
			return mapError(err)
		}
		for _, p := range prepared {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO session_fields (key, value, sealed, updated_at) VALUES (?, ?, ?, ?)`,
				p.key, p.value, p.sealed, stamp,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// DeleteSessionFields removes every stored field.
func (r *SessionRepository) DeleteSessionFields(ctx context.Context) error {
	if _, err := r.pool.db.ExecContext(ctx, `DELETE FROM session_fields`); err != nil {
		return mapError(err)
	}
	return nil
}
