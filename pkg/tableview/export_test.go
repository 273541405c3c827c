package tableview

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// memorySink records every document it receives.
type memorySink struct {
	mu    sync.Mutex
	names []string
	mimes []string
	docs  []string
}

func (s *memorySink) Save(name, mime string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	s.mimes = append(s.mimes, mime)
	s.docs = append(s.docs, string(data))
	return nil
}

func parseCSV(t *testing.T, doc string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(doc))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"Smith, John", `"Smith, John"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
		{" leading space", " leading space"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeField(tt.in))
		})
	}
}

func TestCSVLayout(t *testing.T) {
	recs := []types.Record{
		{"id": "1", "name": "Aarav", "active": true, "note": nil},
		{"id": "2", "name": "Isha", "active": false, "note": "on leave"},
	}
	v, err := New(Config[types.Record]{
		Records: recs,
		Columns: []Column[types.Record]{
			Field("name", "Name"),
			Field("active", "Active"),
			Field("note", "Note"),
		},
	})
	require.NoError(t, err)

	doc, n := v.CSV(types.ExportOptions{})
	assert.Equal(t, 2, n)
	assert.Equal(t, "Name,Active,Note\nAarav,Yes,\nIsha,No,on leave", doc)
}

func TestCSVEmpty(t *testing.T) {
	v := newEmployeeView(t)
	v.SetQuery("nobody matches this")

	doc, n := v.CSV(types.ExportOptions{})
	assert.Equal(t, 0, n)
	assert.Equal(t, "Name,Role,Team,Salary,Rating,Active\n", doc)
}

func TestCSVUsesVisibleColumnsAndAllPages(t *testing.T) {
	v := newEmployeeView(t)
	v.ToggleColumn("salary")
	v.ToggleColumn("active")
	v.SetSort("name")
	v.GoToPage(2)

	rows := parseCSV(t, mustCSV(v, types.ExportOptions{}))
	require.Len(t, rows, 13, "header plus every filtered record regardless of page")
	assert.Equal(t, []string{"Name", "Role", "Team", "Rating"}, rows[0])
	assert.Equal(t, []string{"Aarav", "Engineer", "Web", "4.6"}, rows[1])
	assert.Equal(t, []string{"Vikram", "Designer", "Design", "4.0"}, rows[12])
}

func TestCSVOnlySelected(t *testing.T) {
	v := newEmployeeView(t)
	v.ToggleRow("4")
	v.ToggleRow("9")

	rows := parseCSV(t, mustCSV(v, types.ExportOptions{OnlySelected: true}))
	require.Len(t, rows, 3, "one header row plus two data rows")
	assert.Equal(t, "Neha", rows[1][0])
	assert.Equal(t, "Vikram", rows[2][0])
}

func TestCSVOnlySelectedFollowsFilteredOrder(t *testing.T) {
	v := newEmployeeView(t)
	v.ToggleRow("1")
	v.ToggleRow("2")
	v.ToggleRow("3")
	v.SetSort("name")
	v.SetSort("name")
	v.SetQuery("a")

	rows := parseCSV(t, mustCSV(v, types.ExportOptions{OnlySelected: true}))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Kabir", "Isha", "Aarav"}, []string{rows[1][0], rows[2][0], rows[3][0]})

	v.SetQuery("Designer")
	rows = parseCSV(t, mustCSV(v, types.ExportOptions{OnlySelected: true}))
	require.Len(t, rows, 2, "selected records filtered out of the view are not exported")
	assert.Equal(t, "Isha", rows[1][0])
}

func TestCSVRoundTrip(t *testing.T) {
	recs := []types.Record{
		{"id": "1", "name": "Smith, John", "quote": `He said "no"`, "bio": "line one\nline two"},
		{"id": "2", "name": "Plain", "quote": "", "bio": "single"},
	}
	v, err := New(Config[types.Record]{
		Records: recs,
		Columns: []Column[types.Record]{
			Field("name", "Name, full"),
			Field("quote", "Quote"),
			Field("bio", "Bio"),
		},
	})
	require.NoError(t, err)

	rows := parseCSV(t, mustCSV(v, types.ExportOptions{}))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name, full", "Quote", "Bio"}, rows[0])
	for i, rec := range recs {
		assert.Equal(t, []string{
			rec["name"].(string),
			rec["quote"].(string),
			rec["bio"].(string),
		}, rows[i+1])
	}
}

func TestWriteCSV(t *testing.T) {
	v := newEmployeeView(t)
	v.SetQuery("engineer")

	var buf bytes.Buffer
	n, err := v.WriteCSV(&buf, types.ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, strings.HasPrefix(buf.String(), "Name,Role,Team,Salary,Rating,Active\nAarav,Engineer,Web,850000,4.6,Yes\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSVFailure(t *testing.T) {
	v := newEmployeeView(t)
	_, err := v.WriteCSV(failingWriter{}, types.ExportOptions{})
	assert.ErrorIs(t, err, types.ErrExportFailed)
}

func TestExport(t *testing.T) {
	sink := &memorySink{}
	v, err := New(Config[types.Record]{
		Records: employees(),
		Columns: employeeColumns(),
		Sink:    sink,
	})
	require.NoError(t, err)

	require.NoError(t, v.Export(types.ExportOptions{}))
	require.NoError(t, v.Export(types.ExportOptions{Filename: "people.csv"}))

	assert.Equal(t, []string{types.DefaultExportName, "people.csv"}, sink.names)
	assert.Equal(t, []string{types.CSVMimeType, types.CSVMimeType}, sink.mimes)
	assert.Len(t, parseCSV(t, sink.docs[0]), 13)
}

func TestExportFailures(t *testing.T) {
	boom := errors.New("blob unavailable")
	tests := []struct {
		name string
		sink types.Sink
	}{
		{"no sink", nil},
		{"sink error", types.SinkFunc(func(string, string, []byte) error { return boom })},
		{"sink panic", types.SinkFunc(func(string, string, []byte) error { panic("no download support") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(Config[types.Record]{
				Records: employees(),
				Columns: employeeColumns(),
				Sink:    tt.sink,
			})
			require.NoError(t, err)

			var exportErr error
			assert.NotPanics(t, func() {
				exportErr = v.Export(types.ExportOptions{})
			})
			assert.ErrorIs(t, exportErr, types.ErrExportFailed)

			v.NextPage()
			assert.Equal(t, 2, v.Page(), "view stays usable after a failed export")
		})
	}

	t.Run("sink error is preserved", func(t *testing.T) {
		v, err := New(Config[types.Record]{
			Records: employees(),
			Columns: employeeColumns(),
			Sink:    types.SinkFunc(func(string, string, []byte) error { return boom }),
		})
		require.NoError(t, err)
		assert.ErrorIs(t, v.Export(types.ExportOptions{}), boom)
	})
}

func TestExportSerialised(t *testing.T) {
	var (
		mu     sync.Mutex
		active int
		peak   int
	)
	sink := types.SinkFunc(func(string, string, []byte) error {
		mu.Lock()
		active++
		peak = max(peak, active)
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})
	v, err := New(Config[types.Record]{Records: employees(), Columns: employeeColumns(), Sink: sink})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, v.Export(types.ExportOptions{}))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, peak, "sink never sees two exports at once")
}

func mustCSV(v *View[types.Record], opts types.ExportOptions) string {
	doc, _ := v.CSV(opts)
	return doc
}
