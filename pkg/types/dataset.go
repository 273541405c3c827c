package types

import "time"

// ColumnSpec is the stored form of a column. Format names a formatter known
// to the dataset package ("inr", "fixed1", ...); empty means the canonical
// stringification.
type ColumnSpec struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	NoSort bool   `json:"no_sort,omitempty" yaml:"no_sort,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Dataset is a named record set together with the columns that describe it.
type Dataset struct {
	Name        string       `json:"name"`
	Columns     []ColumnSpec `json:"columns"`
	IDField     string       `json:"id_field,omitempty"`
	InitialSort *SortSpec    `json:"initial_sort,omitempty"`
	Records     []Record     `json:"records,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IdentityField returns the field holding record identities.
func (d *Dataset) IdentityField() string {
	if d.IDField == "" {
		return IDField
	}
	return d.IDField
}

// DatasetInfo summarises a stored dataset without its records.
type DatasetInfo struct {
	Name      string    `json:"name"`
	Columns   int       `json:"columns"`
	Records   int       `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
}
