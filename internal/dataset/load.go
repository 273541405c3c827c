package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tabula/internal/sqlite"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Input formats accepted by Load.
const (
	InputCSV   = "csv"
	InputJSONL = "jsonl"
)

// LoadOptions control how a file becomes a dataset.
type LoadOptions struct {
	// Name of the dataset. Required.
	Name string

	// Input is InputCSV or InputJSONL. Empty picks by file extension.
	Input string

	// IDField names the identity field. Defaults to "id". Records without
	// one receive a generated UUID.
	IDField string

	// Formats maps column keys to formatter names.
	Formats map[string]string

	// Labels maps column keys to header labels. Keys without one use the
	// source header.
	Labels map[string]string

	// NoSort lists columns that cannot be sorted.
	NoSort []string

	// InitialSort, when set, is stored with the dataset.
	InitialSort *types.SortSpec
}

// LoadFile reads a CSV or JSONL file into a dataset.
func LoadFile(path string, opts LoadOptions) (*types.Dataset, error) {
	if opts.Input == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			opts.Input = InputCSV
		case ".jsonl", ".ndjson":
			opts.Input = InputJSONL
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownInput, path)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts)
}

// Load reads records from r and assembles a dataset. Columns follow the
// source's field order; the identity field is not shown as a column unless
// the source carried it.
func Load(r io.Reader, opts LoadOptions) (*types.Dataset, error) {
	if err := sqlite.ValidateName(opts.Name); err != nil {
		return nil, err
	}

	var (
		keys    []string
		records []types.Record
		err     error
	)
	switch opts.Input {
	case InputCSV:
		keys, records, err = readCSV(r)
	case InputJSONL:
		keys, records, err = readJSONL(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInput, opts.Input)
	}
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrEmptyInput
	}

	ds := &types.Dataset{
		Name:        opts.Name,
		IDField:     opts.IDField,
		InitialSort: opts.InitialSort,
		Records:     records,
	}
	if err := AssignIDs(ds.Records, ds.IdentityField()); err != nil {
		return nil, err
	}

	noSort := make(map[string]bool, len(opts.NoSort))
	for _, k := range opts.NoSort {
		noSort[k] = true
	}
	for _, k := range keys {
		spec := types.ColumnSpec{Key: k, Label: k, NoSort: noSort[k], Format: opts.Formats[k]}
		if l, ok := opts.Labels[k]; ok {
			spec.Label = l
		}
		if _, err := Format(spec.Format); err != nil {
			return nil, fmt.Errorf("column %s: %w", k, err)
		}
		ds.Columns = append(ds.Columns, spec)
	}
	return ds, nil
}

// AssignIDs gives every record without a value in field a UUIDv7 identity.
// It fails when two records already share an identity.
func AssignIDs(records []types.Record, field string) error {
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		v, ok := rec[field]
		if !ok || v == nil || v == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generating id: %w", err)
			}
			rec[field] = id.String()
			continue
		}
		key := fmt.Sprint(v)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: records %d and %d share %s %q", types.ErrDuplicateIdentity, prev+1, i+1, field, key)
		}
		seen[key] = i
	}
	return nil
}

// readCSV reads a header row and typed records.
func readCSV(r io.Reader) ([]string, []types.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyInput
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if keys[i] == "" {
			keys[i] = "col" + strconv.Itoa(i+1)
		}
	}

	var records []types.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
		}
		rec := make(types.Record, len(keys))
		for i, k := range keys {
			if i < len(row) {
				rec[k] = ParseValue(row[i])
			} else {
				rec[k] = nil
			}
		}
		records = append(records, rec)
	}
	return keys, records, nil
}

// readJSONL reads one JSON object per line. Keys keep first-seen order.
func readJSONL(r io.Reader) ([]string, []types.Record, error) {
	var (
		keys    []string
		seen    = map[string]bool{}
		records []types.Record
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		order, err := objectKeys(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		var rec types.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		for k, v := range rec {
			rec[k] = normalize(v)
		}
		for _, k := range order {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return keys, records, nil
}

// objectKeys returns the top-level keys of a JSON object in source order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// normalize keeps records to primitive display values: integral floats
// become ints and nested values are kept as their JSON text.
func normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return v
}

// ParseValue types a text cell: empty is nil, true/false are bools, integers
// and decimals are numbers and everything else stays text. Text becomes a
// number only when the number prints back as the same text, so codes such as
// "007" and forms such as "1e3" are kept as written.
func ParseValue(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil
	}
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil && strconv.FormatInt(i, 10) == t {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) &&
		strconv.FormatFloat(f, 'f', -1, 64) == t {
		return f
	}
	return s
}
