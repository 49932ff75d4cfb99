package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rpggio/punchclock/internal/repository"
)

// APIKeyRepository stores hashed API keys
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: time.Now}
}

// HashKey returns the stored form of a key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Add stores the hash of key under label
func (r *APIKeyRepository) Add(ctx context.Context, key, label string) error {
	if key == "" {
		return repository.ErrInvalidInput
	}
	query, args, err := sq.Insert("api_keys").
		Columns("key_hash", "label", "created_at").
		Values(HashKey(key), label, formatTime(r.now())).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add api key: %w", translateError(err))
	}
	return nil
}

// ResolveKey returns the label of a known key and records its use
func (r *APIKeyRepository) ResolveKey(ctx context.Context, key string) (string, error) {
	hash := HashKey(key)
	var label string
	err := r.db.QueryRowContext(ctx, `SELECT label FROM api_keys WHERE key_hash = ?`, hash).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, formatTime(r.now()), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	if label == "" {
		label = "api-key"
	}
	return label, nil
}
