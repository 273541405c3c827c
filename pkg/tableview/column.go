package tableview

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Column describes one column of a view over records of type T.
type Column[T any] struct {
	// Key identifies the column; it must be unique within a view.
	Key string

	// Label is the header text, also used as the CSV header.
	Label string

	// DisableSort marks the column as not sortable. Columns sort by default.
	DisableSort bool

	// Value extracts the raw cell value. For views over types.Record it may
	// be left nil, in which case the record's Key field is used.
	Value func(rec T) any

	// Format renders the raw value for display, filtering and export. When
	// nil the value is stringified with Stringify.
	Format func(value any, rec T) string
}

// Sortable reports whether the column accepts SetSort.
func (c Column[T]) Sortable() bool {
	return !c.DisableSort
}

// display renders the cell for rec.
func (c Column[T]) display(rec T) string {
	v := c.Value(rec)
	if c.Format != nil {
		return c.Format(v, rec)
	}
	return Stringify(v)
}

// Field returns a record column reading rec[key].
func Field(key, label string) Column[types.Record] {
	return Column[types.Record]{
		Key:   key,
		Label: label,
		Value: recordValue(key),
	}
}

func recordValue(key string) func(types.Record) any {
	return func(rec types.Record) any { return rec[key] }
}

// resolveColumns validates columns and fills in record accessors.
func resolveColumns[T any](cols []Column[T]) ([]Column[T], map[string]int, error) {
	if len(cols) == 0 {
		return nil, nil, types.ErrNoColumns
	}
	out := make([]Column[T], len(cols))
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Key == "" {
			return nil, nil, types.ErrEmptyColumnKey
		}
		if _, dup := index[c.Key]; dup {
			return nil, nil, fmt.Errorf("%w: %q", types.ErrDuplicateColumn, c.Key)
		}
		if c.Value == nil {
			acc, ok := any(recordValue(c.Key)).(func(T) any)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %q", types.ErrMissingAccessor, c.Key)
			}
			c.Value = acc
		}
		if c.Label == "" {
			c.Label = c.Key
		}
		out[i] = c
		index[c.Key] = i
	}
	return out, index, nil
}

// recordKey is the identity used for types.Record views without a Key func.
func recordKey(rec types.Record) string {
	v, ok := rec[types.IDField]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Stringify is the canonical display form of a raw value: true and false
// become "Yes" and "No", nil becomes "", floats use their shortest decimal
// form and everything else its string form.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
