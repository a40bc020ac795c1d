// Package sqlite persists the dashboard session in a local SQLite database
// using the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const saltName = "seal_salt"

// Storage bundles the pool and the repositories built on it.
type Storage struct {
	pool     *ConnectionPool
	sessions *SessionRepository
}

// Open connects to the database, applies migrations and prepares the sealer
// from secret. sealedKeys name the session fields encrypted at rest.
func Open(ctx context.Context, config Config, secret string, params KeyParams, sealedKeys ...string) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, err
	}

	salt, err := loadOrCreateSalt(ctx, pool)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	sealer, err := NewSealer(secret, salt, params)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &Storage{
		pool:     pool,
		sessions: NewSessionRepository(pool, sealer, sealedKeys...),
	}, nil
}

// Sessions returns the session repository.
func (s *Storage) Sessions() *SessionRepository {
	return s.sessions
}

// Ping checks the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.pool.Close()
}

func loadOrCreateSalt(ctx context.Context, pool *ConnectionPool) ([]byte, error) {
	var salt []byte
	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE name = ?`, saltName).Scan(&salt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if salt, err = newSalt(); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO store_meta (name, value) VALUES (?, ?)`, saltName, salt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load sealing salt: %w", err)
	}
	return salt, nil
}
