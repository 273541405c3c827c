package dataset

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Formatter renders a raw cell value for display.
type Formatter func(v any) string

// formats holds the named formatters a ColumnSpec may reference.
var formats = map[string]Formatter{
	"inr":     formatINR,
	"comma":   formatComma,
	"fixed1":  fixed(1),
	"fixed2":  fixed(2),
	"percent": formatPercent,
	"bytes":   formatBytes,
	"upper":   func(v any) string { return strings.ToUpper(tableview.Stringify(v)) },
	"yesno":   formatYesNo,
}

// Format returns the named formatter. The empty name returns nil, meaning
// the canonical stringification.
func Format(name string) (Formatter, error) {
	if name == "" {
		return nil, nil
	}
	f, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// FormatNames lists the registered formatter names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// formatINR renders rupees with thousands separators. Zero and missing
// amounts render empty.
func formatINR(v any) string {
	n, ok := number(v)
	if !ok || n == 0 {
		return ""
	}
	return "₹" + commas(n)
}

func formatComma(v any) string {
	n, ok := number(v)
	if !ok {
		return tableview.Stringify(v)
	}
	return commas(n)
}

func commas(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return humanize.Comma(int64(n))
	}
	return humanize.Commaf(n)
}

func fixed(places int) Formatter {
	return func(v any) string {
		n, ok := number(v)
		if !ok {
			return tableview.Stringify(v)
		}
		return strconv.FormatFloat(n, 'f', places, 64)
	}
}

func formatPercent(v any) string {
	n, ok := number(v)
	if !ok {
		return tableview.Stringify(v)
	}
	return strconv.FormatFloat(n, 'f', 1, 64) + "%"
}

func formatBytes(v any) string {
	n, ok := number(v)
	if !ok || n < 0 {
		return tableview.Stringify(v)
	}
	return humanize.Bytes(uint64(n))
}

func formatYesNo(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		return tableview.Stringify(x)
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "no", "n", "off":
			return "No"
		}
		return "Yes"
	}
	if n, ok := number(v); ok {
		return tableview.Stringify(n != 0)
	}
	return tableview.Stringify(v)
}

// number coerces numeric kinds and numeric strings to float64.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Columns turns stored column specs into view columns.
func Columns(specs []types.ColumnSpec) ([]tableview.Column[types.Record], error) {
	cols := make([]tableview.Column[types.Record], 0, len(specs))
	for _, s := range specs {
		col := tableview.Field(s.Key, s.Label)
		col.DisableSort = s.NoSort
		f, err := Format(s.Format)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", s.Key, err)
		}
		if f != nil {
			col.Format = func(v any, _ types.Record) string { return f(v) }
		}
		cols = append(cols, col)
	}
	return cols, nil
}
