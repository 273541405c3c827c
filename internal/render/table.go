package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// EmptyMessage is shown in place of rows when the page is empty.
const EmptyMessage = "No rows match your filters."

// Focus marks the cursor row and the focused column. Negative values mean
// nothing is focused.
type Focus struct {
	Row int
	Col int
}

// NoFocus renders without a cursor.
var NoFocus = Focus{Row: -1, Col: -1}

// Checkbox returns the box for a row or page selection state.
func Checkbox(s types.SelectState) string {
	switch s {
	case types.SelectAll:
		return "[x]"
	case types.SelectSome:
		return "[-]"
	default:
		return "[ ]"
	}
}

// HeaderLabel is the label with its sort arrow, if any.
func HeaderLabel(h tableview.Header) string {
	if ind := h.Indicator(); ind != "" {
		return h.Label + " " + ind
	}
	return h.Label
}

// Table renders the snapshot's page as a bordered table.
func Table(snap tableview.Snapshot, th Theme, focus Focus) string {
	offset := 0
	var headers []string
	if snap.Selectable {
		headers = append(headers, Checkbox(snap.PageSelection))
		offset = 1
	}
	for _, h := range snap.Columns {
		headers = append(headers, HeaderLabel(h))
	}

	rows := make([][]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		row := make([]string, 0, len(r.Cells)+offset)
		if snap.Selectable {
			row = append(row, Checkbox(rowState(r.Selected)))
		}
		row = append(row, r.Cells...)
		rows = append(rows, row)
	}

	t := table.New().
		Border(th.Frame).
		BorderStyle(th.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col-offset == focus.Col && col >= offset {
					return th.Focus
				}
				return th.Header
			}
			switch {
			case row == focus.Row:
				return th.Cursor
			case row >= 0 && row < len(snap.Rows) && snap.Rows[row].Selected:
				return th.Selected
			case row%2 == 1:
				return th.Zebra
			default:
				return th.Cell
			}
		})

	out := t.Render()
	if len(snap.Rows) == 0 {
		out += "\n" + th.Meta.Render(EmptyMessage)
	}
	return out
}

func rowState(selected bool) types.SelectState {
	if selected {
		return types.SelectAll
	}
	return types.SelectNone
}

// Pager renders "← Prev  Page p of n  Next →", dimming the unavailable
// directions.
func Pager(snap tableview.Snapshot, th Theme) string {
	prev, next := th.Meta.Render("← Prev"), th.Meta.Render("Next →")
	if !snap.HasPrev {
		prev = th.Disabled.Render("← Prev")
	}
	if !snap.HasNext {
		next = th.Disabled.Render("Next →")
	}
	return prev + "  " + th.Meta.Render(fmt.Sprintf("Page %d of %d", snap.Page, snap.TotalPages)) + "  " + next
}

// Toolbar renders the results line, the column badge, the page size and the
// selection count.
func Toolbar(snap tableview.Snapshot, th Theme) string {
	parts := []string{
		th.Meta.Render(snap.Summary + "."),
		"Columns " + th.Badge.Render(fmt.Sprintf("%d/%d", snap.VisibleCount, snap.ColumnCount)),
		th.Meta.Render(fmt.Sprintf("%d / page", snap.PageSize)),
	}
	if snap.Selectable && snap.SelectedCount > 0 {
		parts = append(parts, th.Badge.Render(fmt.Sprintf("%d selected", snap.SelectedCount)))
	}
	return strings.Join(parts, "  ")
}

// View renders toolbar, table and pager stacked.
func View(snap tableview.Snapshot, th Theme, focus Focus) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		Toolbar(snap, th),
		Table(snap, th, focus),
		Pager(snap, th),
	)
}
