package sqlite

import (
	"encoding/json"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// datasetJSON is a line of datasets.jsonl.
type datasetJSON struct {
	Name        string             `json:"name"`
	Columns     []types.ColumnSpec `json:"columns"`
	IDField     string             `json:"id_field,omitempty"`
	InitialSort *types.SortSpec    `json:"initial_sort,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

// recordJSON is a line of records.jsonl.
type recordJSON struct {
	Dataset string          `json:"dataset"`
	Ordinal int             `json:"ordinal"`
	Data    json.RawMessage `json:"data"`
}

// kvJSON is a line of kv.jsonl.
type kvJSON struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
