package browse

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/internal/dataset"
	"github.com/mesh-intelligence/tabula/internal/render"
	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

func newModel(t *testing.T, sink types.Sink) (Model, *tableview.View[types.Record]) {
	t.Helper()
	v, err := dataset.BuildView(dataset.Employees(), dataset.ViewOptions{
		PageSizes: []int{5, 10, 20},
		Sink:      sink,
	})
	require.NoError(t, err)
	return New(v, Options{Theme: render.PlainTheme()}), v
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys to the model and returns it with the last command.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestSortFocusedColumn(t *testing.T) {
	m, v := newModel(t, nil)
	assert.Equal(t, types.SortSpec{Key: "name", Direction: types.SortAsc}, v.Sort())

	m, _ = press(m, "s")
	assert.Equal(t, types.SortDesc, v.Sort().Direction)

	m, _ = press(m, "right", "s")
	assert.Equal(t, types.SortSpec{Key: "role", Direction: types.SortAsc}, v.Sort())

	_, _ = press(m, "S")
	assert.Empty(t, v.Sort().Key)
}

func TestFocusStaysInRange(t *testing.T) {
	m, _ := newModel(t, nil)
	m, _ = press(m, "left", "left")
	assert.Equal(t, 0, m.focus)

	for range 10 {
		m, _ = press(m, "right")
	}
	assert.Equal(t, 5, m.focus)
}

func TestToggleColumns(t *testing.T) {
	m, v := newModel(t, nil)

	m, _ = press(m, "v")
	assert.False(t, v.IsVisible("name"))
	assert.Contains(t, m.View(), "Column 1/6: Name (hidden)")

	m, _ = press(m, "v")
	assert.True(t, v.IsVisible("name"))

	m, _ = press(m, "H")
	assert.Empty(t, v.VisibleColumns())
	_, _ = press(m, "A")
	assert.Len(t, v.VisibleColumns(), 6)
}

func TestRowSelection(t *testing.T) {
	m, v := newModel(t, nil)

	m, _ = press(m, "space")
	assert.Equal(t, []string{"1"}, v.Selected(), "cursor starts on Aarav")

	m, _ = press(m, "down", "space")
	assert.Equal(t, []string{"1", "7"}, v.Selected(), "Arjun is second by name")
	assert.Equal(t, types.SelectSome, v.PageSelection())

	m, _ = press(m, "a")
	assert.Equal(t, types.SelectAll, v.PageSelection())

	_, _ = press(m, "c")
	assert.Empty(t, v.Selected())
}

func TestCursorClampsToPage(t *testing.T) {
	m, _ := newModel(t, nil)
	for range 8 {
		m, _ = press(m, "down")
	}
	assert.Equal(t, 4, m.cursor)

	m, _ = press(m, "n", "n")
	assert.Equal(t, 1, m.cursor, "last page holds two rows")
}

func TestPaging(t *testing.T) {
	m, v := newModel(t, nil)

	m, _ = press(m, "n")
	assert.Equal(t, 2, v.Page())
	m, _ = press(m, "p")
	assert.Equal(t, 1, v.Page())

	m, _ = press(m, "+")
	assert.Equal(t, 10, v.PageSize())
	m, _ = press(m, "+", "+")
	assert.Equal(t, 20, v.PageSize())
	_, _ = press(m, "-")
	assert.Equal(t, 10, v.PageSize())
}

func TestStepPageSize(t *testing.T) {
	sizes := []int{5, 10, 20}
	assert.Equal(t, 10, stepPageSize(sizes, 5, 1))
	assert.Equal(t, 5, stepPageSize(sizes, 5, -1))
	assert.Equal(t, 20, stepPageSize(sizes, 20, 1))
	assert.Equal(t, 7, stepPageSize(sizes, 7, 1))
}

func TestSearch(t *testing.T) {
	m, v := newModel(t, nil)

	m, cmd := press(m, "/")
	assert.True(t, m.searching)
	assert.NotNil(t, cmd)

	m, _ = press(m, "e", "n", "g", "q")
	assert.Equal(t, "engq", v.Query(), "keys go to the search box while searching")
	assert.Equal(t, 0, v.Snapshot().Total)

	m, _ = press(m, "esc")
	assert.False(t, m.searching)
	assert.Contains(t, m.View(), "/ engq")

	_, cmd = press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestExport(t *testing.T) {
	var saved []string
	sink := types.SinkFunc(func(name, _ string, data []byte) error {
		saved = append(saved, name)
		return nil
	})
	m, _ := newModel(t, sink)

	m, cmd := press(m, "e")
	require.NotNil(t, cmd)
	next, expire := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []string{types.DefaultExportName}, saved)

	status, isErr := m.Status()
	assert.Equal(t, "Exported all rows to table.csv", status)
	assert.False(t, isErr)
	assert.NotNil(t, expire)

	next, _ = m.Update(statusExpiredMsg{seq: m.statusSeq})
	m = next.(Model)
	status, _ = m.Status()
	assert.Empty(t, status)
}

func TestExportSelected(t *testing.T) {
	m, _ := newModel(t, types.SinkFunc(func(string, string, []byte) error { return nil }))

	m, _ = press(m, "E")
	status, isErr := m.Status()
	assert.Equal(t, "Nothing selected to export", status)
	assert.True(t, isErr)

	m, cmd := press(m, "space", "E")
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	status, _ = next.(Model).Status()
	assert.Equal(t, "Exported selected rows to table.csv", status)
}

func TestExportFailure(t *testing.T) {
	m, _ := newModel(t, types.SinkFunc(func(string, string, []byte) error {
		return errors.New("read-only file system")
	}))

	m, cmd := press(m, "e")
	next, _ := m.Update(cmd())
	m = next.(Model)

	status, isErr := m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "Export failed")
	assert.Contains(t, status, "read-only file system")
}

func TestStaleExpiryIgnored(t *testing.T) {
	m, _ := newModel(t, nil)
	m, _ = press(m, "E")
	m, _ = press(m, "E")

	next, _ := m.Update(statusExpiredMsg{seq: m.statusSeq - 1})
	status, _ := next.(Model).Status()
	assert.NotEmpty(t, status, "an older timer does not clear a newer message")
}

func TestView(t *testing.T) {
	m, _ := newModel(t, nil)
	out := m.View()
	assert.Contains(t, out, "/ to search")
	assert.Contains(t, out, "12 result(s).")
	assert.Contains(t, out, "Page 1 of 3")
	assert.Contains(t, out, "Aarav")

	m, _ = press(m, "?")
	assert.True(t, m.help.ShowAll)
}
