package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// validName restricts dataset names to something safe in file names and
// shell arguments.
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateName returns ErrInvalidName unless name is a usable dataset name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, name)
	}
	return nil
}

// SaveDataset creates or replaces a dataset and all of its records. Records
// keep their slice order. CreatedAt is preserved when replacing.
func (b *Backend) SaveDataset(ds *types.Dataset) error {
	if ds == nil {
		return types.ErrInvalidDataset
	}
	if err := ValidateName(ds.Name); err != nil {
		return err
	}
	if len(ds.Columns) == 0 {
		return fmt.Errorf("%w: no columns", types.ErrInvalidDataset)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	columns, err := json.Marshal(ds.Columns)
	if err != nil {
		return fmt.Errorf("encoding columns: %w", err)
	}
	var initialSort any
	if ds.InitialSort != nil {
		s, err := json.Marshal(ds.InitialSort)
		if err != nil {
			return fmt.Errorf("encoding initial sort: %w", err)
		}
		initialSort = string(s)
	}

	now := time.Now().UTC().Truncate(time.Second)
	created := now
	var existing string
	err = b.db.QueryRow("SELECT created_at FROM datasets WHERE name = ?", ds.Name).Scan(&existing)
	switch {
	case err == nil:
		if t, perr := time.Parse(time.RFC3339, existing); perr == nil {
			created = t
		}
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("reading dataset: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE dataset = ?", ds.Name); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO datasets (name, columns, id_field, initial_sort, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET columns = excluded.columns, id_field = excluded.id_field,
		   initial_sort = excluded.initial_sort, updated_at = excluded.updated_at`,
		ds.Name, string(columns), ds.IDField, initialSort,
		created.Format(time.RFC3339), now.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO records (dataset, ordinal, data) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()
	for i, rec := range ds.Records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := stmt.Exec(ds.Name, i, string(data)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	ds.CreatedAt = created
	ds.UpdatedAt = now
	b.logger.Debug("dataset saved", zap.String("dataset", ds.Name), zap.Int("records", len(ds.Records)))

	if err := b.persistDatasetsJSONL(); err != nil {
		return err
	}
	return b.persistRecordsJSONL()
}

// GetDataset loads a dataset with its records. Returns ErrNotFound when no
// dataset has that name.
func (b *Backend) GetDataset(name string) (*types.Dataset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	row := b.db.QueryRow(
		"SELECT name, columns, id_field, initial_sort, created_at, updated_at FROM datasets WHERE name = ?", name)
	ds, err := scanDataset(row)
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT data FROM records WHERE dataset = ? ORDER BY ordinal", name)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		ds.Records = append(ds.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ListDatasets summarises every dataset, ordered by name.
func (b *Backend) ListDatasets() ([]types.DatasetInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(`SELECT d.name, d.columns, d.updated_at, COUNT(r.ordinal)
		FROM datasets d LEFT JOIN records r ON r.dataset = d.name
		GROUP BY d.name ORDER BY d.name`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var out []types.DatasetInfo
	for rows.Next() {
		var (
			info             types.DatasetInfo
			columns, updated string
		)
		if err := rows.Scan(&info.Name, &columns, &updated, &info.Records); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		var cols []types.ColumnSpec
		if err := json.Unmarshal([]byte(columns), &cols); err != nil {
			return nil, fmt.Errorf("decoding columns of %s: %w", info.Name, err)
		}
		info.Columns = len(cols)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset and its records. Returns ErrNotFound when
// no dataset has that name.
func (b *Backend) DeleteDataset(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	if _, err := tx.Exec("DELETE FROM records WHERE dataset = ?", name); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	b.logger.Debug("dataset deleted", zap.String("dataset", name))
	if err := b.persistDatasetsJSONL(); err != nil {
		return err
	}
	return b.persistRecordsJSONL()
}

func scanDataset(row *sql.Row) (*types.Dataset, error) {
	var (
		ds                        types.Dataset
		columns, created, updated string
		idField, initialSort      sql.NullString
	)
	err := row.Scan(&ds.Name, &columns, &idField, &initialSort, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	if err := json.Unmarshal([]byte(columns), &ds.Columns); err != nil {
		return nil, fmt.Errorf("decoding columns: %w", err)
	}
	ds.IDField = idField.String
	if initialSort.Valid && initialSort.String != "" {
		ds.InitialSort = &types.SortSpec{}
		if err := json.Unmarshal([]byte(initialSort.String), ds.InitialSort); err != nil {
			return nil, fmt.Errorf("decoding initial sort: %w", err)
		}
	}
	if ds.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if ds.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &ds, nil
}

// persistDatasetsJSONL rewrites datasets.jsonl from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistDatasetsJSONL() error {
	rows, err := b.db.Query(
		"SELECT name, columns, id_field, initial_sort, created_at, updated_at FROM datasets ORDER BY name")
	if err != nil {
		return fmt.Errorf("reading datasets for JSONL: %w", err)
	}
	defer rows.Close()

	var lines []datasetJSON
	for rows.Next() {
		var (
			d                    datasetJSON
			columns              string
			idField, initialSort sql.NullString
		)
		if err := rows.Scan(&d.Name, &columns, &idField, &initialSort, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return fmt.Errorf("scanning dataset for JSONL: %w", err)
		}
		if err := json.Unmarshal([]byte(columns), &d.Columns); err != nil {
			return fmt.Errorf("decoding columns for JSONL: %w", err)
		}
		d.IDField = idField.String
		if initialSort.Valid && initialSort.String != "" {
			d.InitialSort = &types.SortSpec{}
			if err := json.Unmarshal([]byte(initialSort.String), d.InitialSort); err != nil {
				return fmt.Errorf("decoding initial sort for JSONL: %w", err)
			}
		}
		lines = append(lines, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	records, err := marshalLines(lines)
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, datasetsJSONL), records)
}

// persistRecordsJSONL rewrites records.jsonl from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistRecordsJSONL() error {
	rows, err := b.db.Query("SELECT dataset, ordinal, data FROM records ORDER BY dataset, ordinal")
	if err != nil {
		return fmt.Errorf("reading records for JSONL: %w", err)
	}
	defer rows.Close()

	var lines []recordJSON
	for rows.Next() {
		var (
			r    recordJSON
			data string
		)
		if err := rows.Scan(&r.Dataset, &r.Ordinal, &data); err != nil {
			return fmt.Errorf("scanning record for JSONL: %w", err)
		}
		r.Data = json.RawMessage(data)
		lines = append(lines, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	records, err := marshalLines(lines)
	if err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, recordsJSONL), records)
}
