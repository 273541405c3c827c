// Package sqlite implements the dataset store. JSONL files in the data
// directory are the source of truth; SQLite is rebuilt from them on every
// Attach and serves all reads. Each write updates SQLite and then rewrites
// the affected JSONL file atomically.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// JSONL file names in the data directory.
const (
	datasetsJSONL = "datasets.jsonl"
	recordsJSONL  = "records.jsonl"
	kvJSONL       = "kv.jsonl"
)

// dbFileName is the SQLite database file, recreated on each Attach.
const dbFileName = "tabula.db"

// Backend is the SQLite dataset store and key-value persistence port.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB
	logger   *zap.Logger
}

// NewBackend creates a detached backend. A nil logger discards output.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Attach opens the store described by config. It creates DataDir if needed,
// rebuilds the SQLite database and loads every JSONL file into it. Returns
// ErrAlreadyAttached if called twice without Detach.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection keeps PRAGMAs and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir, b.logger); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.dataDir = dataDir
	b.attached = true
	b.logger.Debug("store attached", zap.String("data_dir", dataDir))
	return nil
}

// Detach closes the database. It is idempotent; after Detach every
// operation returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
		b.db = nil
	}
	b.logger.Debug("store detached", zap.String("data_dir", b.dataDir))
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// initJSONLFiles creates empty JSONL files that do not exist yet.
func initJSONLFiles(dataDir string) error {
	for _, name := range []string{datasetsJSONL, recordsJSONL, kvJSONL} {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	return nil
}

// createSchema executes the table and index DDL.
func createSchema(db *sql.DB) error {
	for _, stmt := range append(schemaDDL, indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
