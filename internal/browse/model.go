// Package browse is an interactive terminal host for a table view.
package browse

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/internal/render"
	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// DefaultStatusTTL is how long a status message stays on screen.
const DefaultStatusTTL = 3 * time.Second

// Options configure the browser.
type Options struct {
	Title      string
	Theme      render.Theme
	ExportName string
	StatusTTL  time.Duration
	Logger     *zap.Logger
}

// Model is the bubbletea model driving a view.
type Model struct {
	view   *tableview.View[types.Record]
	opts   Options
	keys   keyMap
	help   help.Model
	search textinput.Model

	searching bool
	cursor    int // row on the current page
	focus     int // declared column index

	status    string
	statusErr bool
	statusSeq int
}

type statusExpiredMsg struct{ seq int }

type exportDoneMsg struct {
	name         string
	onlySelected bool
	err          error
}

// New builds a browser over v.
func New(v *tableview.View[types.Record], opts Options) Model {
	if opts.ExportName == "" {
		opts.ExportName = types.DefaultExportName
	}
	if opts.StatusTTL <= 0 {
		opts.StatusTTL = DefaultStatusTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search…"
	ti.SetValue(v.Query())

	return Model{
		view:   v,
		opts:   opts,
		keys:   defaultKeys(),
		help:   help.New(),
		search: ti,
	}
}

// Run starts a full-screen program and blocks until the user quits.
func Run(v *tableview.View[types.Record], opts Options) error {
	_, err := tea.NewProgram(New(v, opts), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.opts.Logger.Warn("export failed", zap.String("file", msg.name), zap.Error(msg.err))
			return m.setStatus("Export failed: "+msg.err.Error(), true)
		}
		what := "all rows"
		if msg.onlySelected {
			what = "selected rows"
		}
		return m.setStatus(fmt.Sprintf("Exported %s to %s", what, msg.name), false)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.view.Query() {
		m.view.SetQuery(m.search.Value())
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.view
	cols := v.Columns()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.focus = max(m.focus-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.focus = min(m.focus+1, len(cols)-1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Sort):
		col := cols[m.focus]
		if !col.Sortable() {
			return m.setStatus(col.Label+" cannot be sorted", true)
		}
		v.SetSort(col.Key)
	case key.Matches(msg, m.keys.ClearSort):
		v.ClearSort()
	case key.Matches(msg, m.keys.ToggleCol):
		v.ToggleColumn(cols[m.focus].Key)
	case key.Matches(msg, m.keys.ShowAll):
		v.ShowAllColumns()
	case key.Matches(msg, m.keys.HideAll):
		v.HideAllColumns()
	case key.Matches(msg, m.keys.ToggleRow):
		if rows := v.Snapshot().Rows; m.cursor < len(rows) {
			v.ToggleRow(rows[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.TogglePage):
		v.ToggleSelectPage()
	case key.Matches(msg, m.keys.ClearSelect):
		v.ClearSelection()
	case key.Matches(msg, m.keys.NextPage):
		v.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		v.PrevPage()
	case key.Matches(msg, m.keys.BiggerPage):
		v.SetPageSize(stepPageSize(v.PageSizes(), v.PageSize(), 1))
	case key.Matches(msg, m.keys.SmallerPage):
		v.SetPageSize(stepPageSize(v.PageSizes(), v.PageSize(), -1))
	case key.Matches(msg, m.keys.Export):
		return m, m.export(false)
	case key.Matches(msg, m.keys.ExportSel):
		if len(v.Selected()) == 0 {
			return m.setStatus("Nothing selected to export", true)
		}
		return m, m.export(true)
	}

	m.cursor = min(m.cursor, max(len(v.PageRecords())-1, 0))
	return m, nil
}

// stepPageSize moves to the neighbouring configured page size.
func stepPageSize(sizes []int, current, step int) int {
	i := slices.Index(sizes, current)
	if i < 0 {
		return current
	}
	return sizes[min(max(i+step, 0), len(sizes)-1)]
}

func (m Model) export(onlySelected bool) tea.Cmd {
	v, name, logger := m.view, m.opts.ExportName, m.opts.Logger
	return func() tea.Msg {
		err := v.Export(types.ExportOptions{OnlySelected: onlySelected, Filename: name})
		logger.Debug("export finished", zap.String("file", name), zap.Bool("only_selected", onlySelected), zap.Error(err))
		return exportDoneMsg{name: name, onlySelected: onlySelected, err: err}
	}
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return m, tea.Tick(m.opts.StatusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.view.Snapshot()
	th := m.opts.Theme

	var b strings.Builder
	if m.opts.Title != "" {
		b.WriteString(th.Header.Render(m.opts.Title))
		b.WriteString("\n")
	}
	if m.searching {
		b.WriteString(m.search.View())
	} else if snap.Query != "" {
		b.WriteString(th.Meta.Render("/ " + snap.Query))
	} else {
		b.WriteString(th.Meta.Render("/ to search"))
	}
	b.WriteString("\n")
	b.WriteString(render.View(snap, th, m.focusFor(snap)))
	b.WriteString("\n")
	b.WriteString(m.columnLine(th))
	b.WriteString("\n")
	if m.status != "" {
		style := th.Badge
		if m.statusErr {
			style = th.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// focusFor maps the declared focus column onto the visible columns.
func (m Model) focusFor(snap tableview.Snapshot) render.Focus {
	f := render.Focus{Row: m.cursor, Col: -1}
	cols := m.view.Columns()
	if m.focus >= len(cols) {
		return f
	}
	for i, h := range snap.Columns {
		if h.Key == cols[m.focus].Key {
			f.Col = i
		}
	}
	return f
}

// columnLine names the focused column and whether it is hidden, which the
// header row alone cannot show.
func (m Model) columnLine(th render.Theme) string {
	cols := m.view.Columns()
	if len(cols) == 0 {
		return ""
	}
	col := cols[m.focus]
	state := "shown"
	if !m.view.IsVisible(col.Key) {
		state = "hidden"
	}
	return th.Meta.Render(fmt.Sprintf("Column %d/%d: %s (%s)", m.focus+1, len(cols), col.Label, state))
}

// Status returns the current status line, for hosts that embed the model.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}
