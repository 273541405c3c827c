// Package sqlite exposes the SQLite dataset store while keeping its
// implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/internal/sqlite"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// NewBackend creates a detached SQLite dataset store. Call Attach with a
// Config before use. A nil logger discards diagnostics.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tabula-db",
//	})
//	defer store.Detach()
func NewBackend(logger *zap.Logger) types.DatasetStore {
	return sqlite.NewBackend(logger)
}
