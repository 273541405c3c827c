package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

func sampleView(t *testing.T) *tableview.View[types.Record] {
	t.Helper()
	v, err := tableview.New(tableview.Config[types.Record]{
		Records: []types.Record{
			{"id": "1", "name": "Aarav", "team": "Web"},
			{"id": "2", "name": "Isha", "team": "Design"},
			{"id": "3", "name": "Kabir", "team": "Data"},
		},
		Columns: []tableview.Column[types.Record]{
			tableview.Field("name", "Name"),
			tableview.Field("team", "Team"),
		},
		PageSizes: []int{2, 5},
	})
	require.NoError(t, err)
	return v
}

func TestCheckbox(t *testing.T) {
	assert.Equal(t, "[ ]", Checkbox(types.SelectNone))
	assert.Equal(t, "[-]", Checkbox(types.SelectSome))
	assert.Equal(t, "[x]", Checkbox(types.SelectAll))
}

func TestHeaderLabel(t *testing.T) {
	assert.Equal(t, "Name", HeaderLabel(tableview.Header{Label: "Name"}))
	assert.Equal(t, "Name ▲", HeaderLabel(tableview.Header{Label: "Name", Active: true, Direction: types.SortAsc}))
	assert.Equal(t, "Name ▼", HeaderLabel(tableview.Header{Label: "Name", Active: true, Direction: types.SortDesc}))
}

func TestTable(t *testing.T) {
	v := sampleView(t)
	v.SetSort("name")
	v.ToggleRow("2")

	out := Table(v.Snapshot(), PlainTheme(), NoFocus)
	assert.Contains(t, out, "Name ▲")
	assert.Contains(t, out, "[-]", "one of two page rows selected")
	assert.Contains(t, out, "Aarav")
	assert.Contains(t, out, "Isha")
	assert.NotContains(t, out, "Kabir", "second page is not drawn")
	assert.NotContains(t, out, EmptyMessage)

	lines := strings.Split(out, "\n")
	var isha string
	for _, l := range lines {
		if strings.Contains(l, "Isha") {
			isha = l
		}
	}
	assert.Contains(t, isha, "[x]")
}

func TestTableEmpty(t *testing.T) {
	v := sampleView(t)
	v.SetQuery("nobody")

	out := Table(v.Snapshot(), PlainTheme(), NoFocus)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, EmptyMessage)
}

func TestTableWithoutSelection(t *testing.T) {
	v, err := tableview.New(tableview.Config[types.Record]{
		Records:          []types.Record{{"id": "1", "name": "Aarav"}},
		Columns:          []tableview.Column[types.Record]{tableview.Field("name", "Name")},
		DisableSelection: true,
	})
	require.NoError(t, err)

	out := Table(v.Snapshot(), DefaultTheme(), Focus{Row: 0, Col: 0})
	assert.NotContains(t, out, "[ ]")
	assert.Contains(t, out, "Aarav")
}

func TestPager(t *testing.T) {
	v := sampleView(t)
	assert.Equal(t, "← Prev  Page 1 of 2  Next →", Pager(v.Snapshot(), PlainTheme()))

	v.NextPage()
	snap := v.Snapshot()
	assert.False(t, snap.HasNext)
	assert.Equal(t, "← Prev  Page 2 of 2  Next →", Pager(snap, PlainTheme()))
}

func TestToolbar(t *testing.T) {
	v := sampleView(t)
	v.ToggleColumn("team")
	v.SetQuery("a")
	v.ToggleRow("1")

	out := Toolbar(v.Snapshot(), PlainTheme())
	assert.Equal(t, "3 result(s) for “a”.  Columns 1/2  2 / page  1 selected", out)
}

func TestView(t *testing.T) {
	out := View(sampleView(t).Snapshot(), PlainTheme(), NoFocus)
	assert.True(t, strings.HasPrefix(out, "3 result(s)."))
	assert.Contains(t, out, "Page 1 of 2")
}

func TestThemeByName(t *testing.T) {
	for _, name := range []string{"", ThemeDefault, ThemePlain} {
		_, err := ThemeByName(name)
		assert.NoError(t, err, name)
	}
	_, err := ThemeByName("neon")
	assert.Error(t, err)
}
