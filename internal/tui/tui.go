// Package tui is the interactive render layer: it owns the list state,
// turns key presses into store actions, and redraws after every transition.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ticker"
	"github.com/idilsaglam/tada/internal/ui"
)

// tickMsg is delivered once per interval by the ticker lease.
type tickMsg time.Time

type focus int

const (
	focusInput focus = iota
	focusList
	focusEdit
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	item  model.Item
	limit int
	timed bool
}

func (i listItem) FilterValue() string { return i.item.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	line := mutedStyle.Render(bullet) + " " + it.item.Text
	if it.timed {
		style := pendingStyle
		if it.item.Remaining <= urgentAt {
			style = errorStyle
		}
		line += "  " + style.Render(clock+" "+ui.Countdown(it.item.Remaining, it.limit, 10))
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Model is the Bubble Tea model wrapping the store.
type Model struct {
	reducer *store.Reducer
	state   store.State
	log     *logging.Logger
	keys    keyMap

	list  list.Model
	draft textinput.Model // mirrors state.Draft
	edit  textinput.Model // render-layer edit buffer, not part of the store

	focus  focus
	editID int64
	width  int
	height int
}

// New builds a model over a fresh, empty state.
func New(r *store.Reducer, log *logging.Logger, charLimit int) Model {
	if log == nil {
		log = logging.Discard()
	}
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Todos")
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	editable := r.Variant().Accepts(store.KindEdit)
	l.AdditionalShortHelpKeys = func() []key.Binding { return keys.listHelp(editable) }
	l.AdditionalFullHelpKeys = func() []key.Binding { return keys.listHelp(editable) }

	draft := textinput.New()
	draft.Prompt = "> "
	draft.Placeholder = "New item..."
	draft.CharLimit = charLimit
	draft.Focus()

	edit := textinput.New()
	edit.Prompt = "> "
	edit.Placeholder = "Edit item..."
	edit.CharLimit = charLimit

	m := Model{
		reducer: r,
		state:   store.Initial(),
		log:     log,
		keys:    keys,
		list:    l,
		draft:   draft,
		edit:    edit,
	}
	m.resize(80, 24)
	return m
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(max(w-4, 20), max(h-10, 3))
}

// State returns the current store snapshot.
func (m Model) State() store.State { return m.state }

// dispatch applies a through the reducer and refreshes the list.
func (m *Model) dispatch(a store.Action) tea.Cmd {
	before := m.state.Len()
	m.state = m.reducer.Apply(m.state, a)
	if a.Kind() != store.KindSetDraft {
		m.log.Debug("applied", "action", a.Kind(), "items", m.state.Len(), "was", before)
	}
	return m.syncList()
}

func (m *Model) syncList() tea.Cmd {
	timed := m.reducer.Variant() == store.Timed
	items := make([]list.Item, 0, m.state.Len())
	for _, it := range m.state.Items {
		items = append(items, listItem{item: it, limit: m.reducer.TimeLimit(), timed: timed})
	}
	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 {
		if idx >= n {
			idx = n - 1
		}
		m.list.Select(idx)
	}
	if m.focus == focusEdit {
		if _, ok := m.state.Find(m.editID); !ok {
			// The item being edited expired or was removed.
			m.stopEdit()
		}
	}
	if m.focus == focusList && len(items) == 0 {
		cmd = tea.Batch(cmd, m.focusInput())
	}
	return cmd
}

func (m *Model) selected() (model.Item, int, bool) {
	i := m.list.Index()
	if i < 0 || i >= m.state.Len() {
		return model.Item{}, -1, false
	}
	return m.state.Items[i], i, true
}

func (m *Model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.draft.Focus()
}

func (m *Model) focusList() {
	m.focus = focusList
	m.draft.Blur()
}

func (m *Model) stopEdit() {
	m.edit.SetValue("")
	m.edit.Blur()
	m.editID = 0
	m.focus = focusList
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		return m, m.dispatch(store.Tick{})
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusInput:
			return m.updateInput(msg)
		case focusEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		cmd := m.dispatch(store.AddItem{})
		m.draft.SetValue(m.state.Draft)
		return m, cmd
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Cancel):
		if m.state.Len() > 0 {
			m.focusList()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	if v := m.draft.Value(); v != m.state.Draft {
		return m, tea.Batch(cmd, m.dispatch(store.SetDraft{Text: v}))
	}
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		// Blank edits are dropped by the store; keep the field open so
		// the user can fix it.
		if strings.TrimSpace(m.edit.Value()) == "" {
			return m, nil
		}
		cmd := m.dispatch(store.EditItem{ID: m.editID, Text: m.edit.Value()})
		m.stopEdit()
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		m.stopEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editable := m.reducer.Variant().Accepts(store.KindEdit)
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Delete):
		if it, _, ok := m.selected(); ok {
			return m, m.dispatch(store.DeleteItem{ID: it.ID})
		}
		return m, nil
	case editable && key.Matches(msg, m.keys.Edit):
		if it, _, ok := m.selected(); ok {
			m.focus = focusEdit
			m.editID = it.ID
			m.edit.SetValue(it.Text)
			m.edit.CursorEnd()
			return m, m.edit.Focus()
		}
		return m, nil
	case editable && key.Matches(msg, m.keys.MoveUp):
		return m, m.move(-1)
	case editable && key.Matches(msg, m.keys.MoveDown):
		return m, m.move(1)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// move shifts the selected item by delta and keeps it selected.
func (m *Model) move(delta int) tea.Cmd {
	_, i, ok := m.selected()
	if !ok {
		return nil
	}
	to := i + delta
	if to < 0 || to >= m.state.Len() {
		return nil
	}
	cmd := m.dispatch(store.MoveItem{From: i, To: to})
	m.list.Select(to)
	return cmd
}

func (m Model) View() string {
	header := fmt.Sprintf("%s   %s %d   %s",
		titleStyle.Render("Todos"),
		accentStyle.Render("Total"), m.state.Len(),
		mutedStyle.Render(m.reducer.Variant().String()),
	)

	input := m.draft.View()
	title := "Add new item"
	if m.focus == focusEdit {
		input = m.edit.View()
		title = "Edit item"
	}
	inputBox := panelStyle(m.focus != focusList).
		Width(max(m.width-6, 20)).
		Render(title + "\n" + input)

	var body string
	if m.state.Len() == 0 {
		body = mutedStyle.Render("no items")
	} else {
		body = m.list.View()
	}
	return panelStyle(false).Render(header + "\n" + inputBox + "\n" + body)
}

// Run starts the interactive list and blocks until the user quits. In the
// timer variant a ticker lease feeds Tick actions for the program's lifetime.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	r := store.New(cfg.ReducerOptions()...)
	m := New(r, log, cfg.CharLimit)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if cfg.StoreVariant() == store.Timed {
		lease := ticker.Acquire(ctx, cfg.Interval(), func(t time.Time) {
			p.Send(tickMsg(t))
		})
		defer lease.Release()
	}

	log.Info("tui started", "variant", r.Variant(), "limit", r.TimeLimit(), "interval", cfg.Interval())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	if fm, ok := finalModel.(Model); ok {
		log.Info("tui stopped", "items", fm.state.Len())
	}
	return nil
}
