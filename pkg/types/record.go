package types

// Record is a dynamically shaped row: field name to primitive display value
// (string, integer and float kinds, bool, or nil). Records loaded from CSV,
// JSONL or the dataset store all use this shape.
type Record map[string]any

// IDField is the field consulted for a record's identity when a view is not
// given an explicit key function.
const IDField = "id"

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
