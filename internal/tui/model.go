// Package tui implements the interactive transaction browser.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/service"
	"github.com/Veraticus/ledger/internal/tui/themes"
)

// SnapshotLoader produces dashboard snapshots.
type SnapshotLoader interface {
	Load(ctx context.Context, accountID string, rng analytics.DateRange) (*dashboard.Snapshot, error)
}

// Mode is the current input mode.
type Mode int

// Input modes.
const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeConfirmDelete
)

// Model holds the browse view state. Table contents are always derived from
// the loaded snapshot and state through analytics.Query.
type Model struct {
	loader    SnapshotLoader
	mutator   service.BulkMutator
	lastError error
	snapshot  *dashboard.Snapshot
	selection *analytics.Selection
	config    Config
	keymap    KeyMap
	help      help.Model
	search    textinput.Model
	table     table.Model
	status    string
	accountID string
	rng       analytics.DateRange
	view      analytics.TableView
	state     analytics.TableState
	width     int
	height    int
	mode      Mode
	ready     bool
	quitting  bool
}

// New creates the browse model.
func New(loader SnapshotLoader, mutator service.BulkMutator, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	state := analytics.NewTableState()
	state.PageSize = cfg.PageSize

	search := textinput.New()
	search.Placeholder = "Search descriptions..."
	search.CharLimit = 64
	search.Prompt = "/ "

	m := Model{
		loader:    loader,
		mutator:   mutator,
		config:    cfg,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		search:    search,
		table:     newTable(cfg.Theme),
		selection: analytics.NewSelection(),
		state:     state,
		rng:       cfg.Range,
		accountID: cfg.AccountID,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.resize()
	return m
}

func newTable(theme themes.Theme) table.Model {
	t := table.New(
		table.WithColumns(tableColumns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)
	return t
}

// Init loads the first snapshot.
func (m Model) Init() tea.Cmd {
	return m.loadSnapshot()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			slog.Error("Failed to load transactions", "error", msg.err)
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.accountID = msg.snapshot.Account.ID
		m.lastError = nil
		m.ready = true
		m.refresh()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.selection.Clear()
		m.status = fmt.Sprintf("Deleted %d transactions", msg.count)
		return m, m.loadSnapshot()

	case tea.KeyMsg:
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	m.status = ""

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, k.Refresh):
		return m, m.loadSnapshot()

	case key.Matches(msg, k.Up):
		m.table.MoveUp(1)

	case key.Matches(msg, k.Down):
		m.table.MoveDown(1)

	case key.Matches(msg, k.PrevPage):
		m.state.PrevPage(m.view.PageCount)
		m.refresh()

	case key.Matches(msg, k.NextPage):
		m.state.NextPage(m.view.PageCount)
		m.refresh()

	case key.Matches(msg, k.Search):
		m.mode = ModeSearch
		m.search.SetValue(m.state.Criteria.SearchText)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, k.CycleType):
		m.state.SetTypeFilter(nextTypeFilter(m.state.Criteria.Type))
		m.refresh()

	case key.Matches(msg, k.CycleRecurring):
		m.state.SetRecurringFilter(nextRecurringFilter(m.state.Criteria.Recurring))
		m.refresh()

	case key.Matches(msg, k.ClearFilters):
		m.state.ClearFilters(m.selection)
		m.search.SetValue("")
		m.refresh()

	case key.Matches(msg, k.NextRange):
		m.rng = nextRange(m.rng)
		return m, m.loadSnapshot()

	case key.Matches(msg, k.SortDate):
		m.state.ToggleSort(analytics.SortByDate)
		m.refresh()

	case key.Matches(msg, k.SortAmount):
		m.state.ToggleSort(analytics.SortByAmount)
		m.refresh()

	case key.Matches(msg, k.SortCategory):
		m.state.ToggleSort(analytics.SortByCategory)
		m.refresh()

	case key.Matches(msg, k.ToggleSelect):
		if id, ok := m.cursorID(); ok {
			m.selection.Toggle(id)
			m.refreshRows()
		}

	case key.Matches(msg, k.SelectAll):
		m.selection.SelectAllVisible(m.view.VisibleIDs())
		m.refreshRows()

	case key.Matches(msg, k.Delete):
		if m.selection.Len() > 0 {
			m.mode = ModeConfirmDelete
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = ModeBrowse
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = ModeBrowse
		m.search.Blur()
		m.search.SetValue("")
		m.state.SetSearch("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.state.Criteria.SearchText {
		m.state.SetSearch(m.search.Value())
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeBrowse
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteTransactions(m.selection.IDs())
	default:
		m.status = "Delete canceled"
		return m, nil
	}
}

// refresh recomputes the table view from the snapshot and state.
func (m *Model) refresh() {
	if m.snapshot == nil {
		return
	}
	m.view = analytics.Query(m.snapshot.Transactions, m.state, m.config.Sorter)
	if m.view.PageCount > 0 && m.state.Page > m.view.PageCount {
		m.state.Page = analytics.ClampPage(m.state.Page, m.view.PageCount)
		m.view = analytics.Query(m.snapshot.Transactions, m.state, m.config.Sorter)
	}
	m.refreshRows()
}

func (m *Model) refreshRows() {
	m.table.SetRows(m.buildRows())
	if c := m.table.Cursor(); c >= len(m.view.Rows) {
		m.table.SetCursor(max(0, len(m.view.Rows)-1))
	}
}

func (m Model) cursorID() (string, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.view.Rows) {
		return "", false
	}
	return m.view.Rows[c].ID, true
}

func (m *Model) resize() {
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetHeight(max(3, m.height-chromeHeight(m.help.ShowAll)))
	m.help.Width = m.width
	m.search.Width = max(10, m.width/2)
}

// State returns the current table state.
func (m Model) State() analytics.TableState {
	return m.state
}

// TableView returns the current table page.
func (m Model) TableView() analytics.TableView {
	return m.view
}

// Selection returns the current selection.
func (m Model) Selection() *analytics.Selection {
	return m.selection
}

// Range returns the current overview range.
func (m Model) Range() analytics.DateRange {
	return m.rng
}

// Err returns the last load or delete error.
func (m Model) Err() error {
	return m.lastError
}

// CurrentMode returns the input mode.
func (m Model) CurrentMode() Mode {
	return m.mode
}

func nextTypeFilter(f analytics.TypeFilter) analytics.TypeFilter {
	switch f {
	case analytics.TypeAll:
		return analytics.TypeIncome
	case analytics.TypeIncome:
		return analytics.TypeExpense
	default:
		return analytics.TypeAll
	}
}

func nextRecurringFilter(f analytics.RecurringFilter) analytics.RecurringFilter {
	switch f {
	case analytics.RecurringAll:
		return analytics.RecurringOnly
	case analytics.RecurringOnly:
		return analytics.NonRecurringOnly
	default:
		return analytics.RecurringAll
	}
}

func nextRange(current analytics.DateRange) analytics.DateRange {
	presets := analytics.DateRangePresets
	for i, r := range presets {
		if r.Key == current.Key {
			return presets[(i+1)%len(presets)]
		}
	}
	return analytics.DefaultRange
}
