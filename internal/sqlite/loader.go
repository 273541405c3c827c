package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// jsonlTableMapping maps JSONL files to their SQLite tables and columns.
// Tables referenced by foreign keys load first.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{datasetsJSONL, "datasets", []string{"name", "columns", "id_field", "initial_sort", "created_at", "updated_at"}},
	{recordsJSONL, "records", []string{"dataset", "ordinal", "data"}},
	{kvJSONL, "kv", []string{"key", "value", "updated_at"}},
}

// loadAllJSONL reads each JSONL file from dataDir into its table inside one
// transaction: either every file loads or the database stays empty. Malformed
// lines and rows that violate constraints are skipped and logged. Unknown
// fields are ignored so files written by newer versions still load.
func loadAllJSONL(db *sql.DB, dataDir string, logger *zap.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, skipped, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if skipped > 0 {
			logger.Warn("skipped malformed JSONL lines",
				zap.String("file", mapping.file), zap.Int("lines", skipped))
		}
		if len(records) == 0 {
			continue
		}

		rejected, err := insertRecords(tx, mapping.table, mapping.columns, records)
		if err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
		if rejected > 0 {
			logger.Warn("skipped rows rejected by schema",
				zap.String("table", mapping.table), zap.Int("rows", rejected))
		}
		logger.Debug("loaded JSONL",
			zap.String("file", mapping.file), zap.Int("rows", len(records)-rejected))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts JSONL records into table and returns how many rows
// were rejected. Only the mapped columns are read; nested JSON values are
// stored as their JSON text.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) (int, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	rejected := 0
	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			rejected++
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			switch v := obj[col].(type) {
			case map[string]any, []any:
				b, err := json.Marshal(v)
				if err != nil {
					continue
				}
				args[i] = string(b)
			case nil:
				args[i] = nil
			default:
				args[i] = v
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			rejected++
		}
	}
	return rejected, nil
}
