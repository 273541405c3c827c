package sqlite

// Schema DDL for the store.
const (
	createDatasets = `CREATE TABLE datasets (
    name TEXT PRIMARY KEY,
    columns TEXT NOT NULL,
    id_field TEXT,
    initial_sort TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createRecords = `CREATE TABLE records (
    dataset TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (dataset, ordinal),
    FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
);`

	createKV = `CREATE TABLE kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL.
const (
	idxRecordsDataset = `CREATE INDEX idx_records_dataset ON records(dataset);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createDatasets,
	createRecords,
	createKV,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRecordsDataset,
}
