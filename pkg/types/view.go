package types

import (
	"errors"
	"fmt"
)

// SortDirection orders a sorted column.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Arrow returns the header indicator for the direction.
func (d SortDirection) Arrow() string {
	if d == SortDesc {
		return "▼"
	}
	return "▲"
}

// SortSpec names the active sort column. An empty Key means unsorted.
type SortSpec struct {
	Key       string        `json:"key" yaml:"key"`
	Direction SortDirection `json:"dir" yaml:"dir"`
}

// SelectState summarises how many rows of the current page are selected, so a
// host can render an indeterminate "select all" control.
type SelectState int

// Page selection states.
const (
	SelectNone SelectState = iota
	SelectSome
	SelectAll
)

func (s SelectState) String() string {
	switch s {
	case SelectAll:
		return "all"
	case SelectSome:
		return "some"
	default:
		return "none"
	}
}

// MarshalText encodes the state by name.
func (s SelectState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *SelectState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*s = SelectNone
	case "some":
		*s = SelectSome
	case "all":
		*s = SelectAll
	default:
		return fmt.Errorf("unknown select state %q", text)
	}
	return nil
}

// DefaultPageSizes are the page-size options used when a view is configured
// without any.
var DefaultPageSizes = []int{5, 10, 20}

// DefaultExportName is the file name given to exports that do not name one.
const DefaultExportName = "table.csv"

// CSVMimeType is the media type handed to sinks for CSV exports.
const CSVMimeType = "text/csv"

// ExportOptions selects which rows an export contains and how it is named.
type ExportOptions struct {
	// OnlySelected restricts the export to selected records of the filtered set.
	OnlySelected bool

	// Filename is passed to the sink; DefaultExportName when empty.
	Filename string
}

// View construction errors.
var (
	ErrNoColumns         = errors.New("at least one column is required")
	ErrDuplicateColumn   = errors.New("duplicate column key")
	ErrEmptyColumnKey    = errors.New("column key must not be empty")
	ErrMissingAccessor   = errors.New("column has no value accessor")
	ErrMissingIdentity   = errors.New("record has no identity")
	ErrDuplicateIdentity = errors.New("duplicate record identity")
	ErrInvalidPageSizes  = errors.New("page sizes must be positive")
	ErrUnknownSortColumn = errors.New("initial sort column is not declared or not sortable")
)

// ErrExportFailed wraps every failure to produce or deliver an export.
var ErrExportFailed = errors.New("export failed")
