package tableview

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// comparator orders raw cell values. Two values that both coerce to finite
// numbers compare numerically; anything else compares by collation of the
// stringified values, ignoring case and diacritics and reading digit runs as
// numbers, so "row2" sorts before "row10". A column mixing numeric and
// non-numeric text is not totally ordered ("4.10" < "4.6" < "4.8z" < "4.10"),
// so its sorted order can depend on the record order.
//
// A collator keeps internal buffers and is not safe for concurrent use; each
// View owns one and only uses it under its lock.
type comparator struct {
	col *collate.Collator
}

func newComparator(tag language.Tag) *comparator {
	return &comparator{col: collate.New(tag, collate.Loose, collate.Numeric)}
}

func (c *comparator) compare(a, b any) int {
	if x, ok := toNumber(a); ok {
		if y, ok := toNumber(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return c.col.CompareString(Stringify(a), Stringify(b))
}

// toNumber coerces numeric kinds, booleans and numeric-looking strings to a
// finite float64. nil and the empty string are not numbers.
func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
