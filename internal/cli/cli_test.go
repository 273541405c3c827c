package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// testEnv isolates one CLI invocation sequence in temp directories.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
	exportDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv("TABULA_EXPORT_DIR", "")
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		exportDir: filepath.Join(root, "exports"),
	}
}

// run executes the CLI and returns stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "tabula %s", strings.Join(args, " "))
	return out
}

func (e *testEnv) snapshot(args ...string) tableview.Snapshot {
	e.t.Helper()
	out := e.mustRun(append([]string{"show", "--json"}, args...)...)
	var snap tableview.Snapshot
	require.NoError(e.t, json.Unmarshal([]byte(out), &snap))
	return snap
}

func TestExitCode(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, exitSuccess, ExitCode(nil))
	assert.Equal(t, exitUserError, ExitCode(boom))
	assert.Equal(t, exitUserError, ExitCode(userError(boom)))
	assert.Equal(t, exitSysError, ExitCode(sysError(boom)))
	assert.ErrorIs(t, sysError(boom), boom)
}

func TestVersion(t *testing.T) {
	out := newTestEnv(t).mustRun("version")
	assert.Contains(t, out, "tabula v")
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("init")
	assert.Contains(t, out, "tabula initialized successfully")

	data, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "page_sizes:")
	for _, name := range []string{"datasets.jsonl", "records.jsonl", "kv.jsonl"} {
		assert.FileExists(t, filepath.Join(env.dataDir, name))
	}

	env.mustRun("init")
}

func TestSeedAndDatasets(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("datasets")
	assert.Contains(t, out, "No datasets")

	out = env.mustRun("seed")
	assert.Equal(t, "Seeded employees (12 records)\n", out)

	out = env.mustRun("datasets")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "employees")

	out = env.mustRun("--json", "datasets")
	var list []types.DatasetInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 12, list[0].Records)
	assert.Equal(t, 6, list[0].Columns)
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("show", "employees", "--theme", "plain")
	assert.Contains(t, out, "12 result(s).")
	assert.Contains(t, out, "Name ▲")
	assert.Contains(t, out, "₹850,000")
	assert.Contains(t, out, "Page 1 of 3")
	assert.NotContains(t, out, "Vikram", "only the first page is printed")
}

func TestShowJSON(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	snap := env.snapshot("employees")
	assert.Equal(t, 12, snap.Total)
	assert.Equal(t, 3, snap.TotalPages)
	require.Len(t, snap.Rows, 5)
	assert.Equal(t, "Aarav", snap.Rows[0].Cells[0])

	snap = env.snapshot("employees", "--page", "99")
	assert.Equal(t, 3, snap.Page, "page clamps to the last")
	assert.Len(t, snap.Rows, 2)

	snap = env.snapshot("employees", "--sort", "rating:desc", "--page-size", "10")
	assert.Equal(t, types.SortSpec{Key: "rating", Direction: types.SortDesc}, snap.Sort)
	assert.Equal(t, "Kunal", snap.Rows[0].Cells[0])
	assert.Len(t, snap.Rows, 10)

	snap = env.snapshot("employees", "--query", "ENGINEER")
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, "3 result(s) for “ENGINEER”", snap.Summary)

	snap = env.snapshot("employees", "--hide", "role", "--query", "engineer")
	assert.Equal(t, 0, snap.Total, "hidden columns are not searched")
	assert.Equal(t, 5, snap.VisibleCount)

	snap = env.snapshot("employees", "--columns", "name,team", "--select", "1,7")
	assert.Equal(t, []string{"name", "team"}, []string{snap.Columns[0].Key, snap.Columns[1].Key})
	assert.Equal(t, 2, snap.SelectedCount)
	assert.Equal(t, types.SelectSome, snap.PageSelection)

	snap = env.snapshot("employees", "--sort", "none")
	assert.Empty(t, snap.Sort.Key)
	assert.Equal(t, "Aarav", snap.Rows[0].Cells[0])
	assert.Equal(t, "Isha", snap.Rows[1].Cells[0], "record order when unsorted")
}

func TestShowErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	tests := []struct {
		name string
		args []string
	}{
		{"missing dataset", []string{"show", "nobody"}},
		{"unknown column", []string{"show", "employees", "--hide", "bonus"}},
		{"unknown sort column", []string{"show", "employees", "--sort", "bonus"}},
		{"bad direction", []string{"show", "employees", "--sort", "name:sideways"}},
		{"bad page size", []string{"show", "employees", "--page-size", "7"}},
		{"bad theme", []string{"show", "employees", "--theme", "neon"}},
		{"missing argument", []string{"show"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, ExitCode(err))
		})
	}
}

func TestExportStdout(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("export", "employees", "--stdout", "--select", "4,9", "--only-selected")
	assert.Equal(t,
		"Name,Role,Team,Salary (₹),Rating,Active\n"+
			"Neha,PM,Platform,\"₹1,200,000\",4.8,Yes\n"+
			"Vikram,Designer,Design,\"₹705,000\",4.0,Yes\n",
		out)
}

func TestExportFile(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("export", "employees", "--export-dir", env.exportDir, "--hide", "salary", "-o", "people.csv")
	path := filepath.Join(env.exportDir, "people.csv")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 13, "header plus every row across pages")
	assert.Equal(t, "Name,Role,Team,Rating,Active", lines[0])
	assert.Equal(t, "Aarav,Engineer,Web,4.6,Yes", lines[1])
}

func TestExportNothingSelected(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	_, err := env.run("export", "employees", "--stdout", "--only-selected")
	require.Error(t, err)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestImportAndDrop(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(t.TempDir(), "stock.csv")
	require.NoError(t, os.WriteFile(src, []byte("sku,item,qty\nB-2,Bolt,row10\nA-1,Anchor,3\n"), 0o644))

	out := env.mustRun("import", "stock", src, "--id-field", "sku", "--label", "qty=Quantity", "--sort", "item:desc", "--no-sort", "sku")
	assert.Equal(t, "Imported 2 records into stock (3 columns)\n", out)

	snap := env.snapshot("stock")
	assert.Equal(t, types.SortSpec{Key: "item", Direction: types.SortDesc}, snap.Sort)
	assert.Equal(t, "B-2", snap.Rows[0].ID)
	assert.Equal(t, "Quantity", snap.Columns[2].Label)
	assert.False(t, snap.Columns[0].Sortable)

	env.mustRun("drop", "stock")
	_, err := env.run("drop", "stock")
	require.Error(t, err)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestImportErrors(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("id,name\n1,Aarav\n"), 0o644))
	dup := filepath.Join(dir, "dup.csv")
	require.NoError(t, os.WriteFile(dup, []byte("id,name\n1,Aarav\n1,Isha\n"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"import", "people", filepath.Join(dir, "absent.csv")}},
		{"bad name", []string{"import", "bad name", good}},
		{"unknown format", []string{"import", "people", good, "--format", "name=roman"}},
		{"duplicate ids", []string{"import", "people", dup}},
		{"unknown sort column", []string{"import", "people", good, "--sort", "bonus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, ExitCode(err))
		})
	}
}

func TestKV(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("kv", "set", "theme", "plain")
	env.mustRun("kv", "set", "last", "employees")
	assert.Equal(t, "plain\n", env.mustRun("kv", "get", "theme"))
	assert.Equal(t, "last\ntheme\n", env.mustRun("kv", "list"))
	assert.Equal(t, "[\"last\",\"theme\"]\n", env.mustRun("--json", "kv", "list"))

	env.mustRun("kv", "rm", "theme")
	_, err := env.run("kv", "get", "theme")
	require.Error(t, err)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestConfigFromFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"),
		[]byte("backend: sqlite\npage_sizes: [4, 8]\ntheme: plain\n"), 0o644))
	env.mustRun("seed")

	snap := env.snapshot("employees")
	assert.Equal(t, []int{4, 8}, snap.PageSizes)
	assert.Equal(t, 3, snap.TotalPages)
}

func TestUnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("backend: dolt\n"), 0o644))

	_, err := env.run("seed")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
	assert.Equal(t, exitUserError, ExitCode(err))
}
