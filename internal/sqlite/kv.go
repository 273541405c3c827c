package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

var _ types.DatasetStore = (*Backend)(nil)

// Get returns the value stored under key.
func (b *Backend) Get(key string) (string, error) {
	if key == "" {
		return "", types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return value, nil
}

// Set creates or replaces the value stored under key.
func (b *Backend) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := b.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}
	return b.persistKVJSONL()
}

// Delete removes key.
func (b *Backend) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return b.persistKVJSONL()
}

// Keys lists stored keys in ascending order.
func (b *Backend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// persistKVJSONL rewrites kv.jsonl from SQLite. The caller must hold b.mu.
func (b *Backend) persistKVJSONL() error {
	rows, err := b.db.Query("SELECT key, value, updated_at FROM kv ORDER BY key")
	if err != nil {
		return fmt.Errorf("reading kv for JSONL: %w", err)
	}
	defer rows.Close()

	var lines []kvJSON
	for rows.Next() {
		var kv kvJSON
		if err := rows.Scan(&kv.Key, &kv.Value, &kv.UpdatedAt); err != nil {
			return fmt.Errorf("scanning kv for JSONL: %w", err)
		}
		lines = append(lines, kv)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	records, err := marshalLines(lines)
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, kvJSONL), records)
}
