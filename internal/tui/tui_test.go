package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/store"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func typeText(s string) []tea.Msg {
	var out []tea.Msg
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

func newModel(v store.Variant) Model {
	return New(store.New(store.WithVariant(v), store.WithTimeLimit(3)), nil, 200)
}

func texts(m Model) []string {
	var out []string
	for _, it := range m.State().Items {
		out = append(out, it.Text)
	}
	return out
}

func TestTypingUpdatesDraft(t *testing.T) {
	m := send(t, newModel(store.Basic), typeText("milk")...)
	if got := m.State().Draft; got != "milk" {
		t.Errorf("Draft: got %q, want milk", got)
	}
	if m.State().Len() != 0 {
		t.Errorf("typing added items")
	}
}

func TestEnterAddsAndClearsDraft(t *testing.T) {
	m := newModel(store.Basic)
	m = send(t, m, typeText("buy milk")...)
	m = send(t, m, press(tea.KeyEnter))

	if got := texts(m); len(got) != 1 || got[0] != "buy milk" {
		t.Fatalf("items: %v", got)
	}
	if m.State().Draft != "" || m.draft.Value() != "" {
		t.Errorf("draft not cleared: state %q input %q", m.State().Draft, m.draft.Value())
	}
}

func TestEnterOnBlankDraftIsNoop(t *testing.T) {
	m := send(t, newModel(store.Basic), runes(" "), runes(" "), press(tea.KeyEnter))
	if m.State().Len() != 0 {
		t.Errorf("blank draft added an item")
	}
	if m.State().Draft != "  " {
		t.Errorf("Draft: got %q, want two spaces", m.State().Draft)
	}
}

func addItems(t *testing.T, m Model, items ...string) Model {
	t.Helper()
	for _, s := range items {
		m = send(t, m, typeText(s)...)
		m = send(t, m, press(tea.KeyEnter))
	}
	return m
}

func TestDeleteSelected(t *testing.T) {
	m := addItems(t, newModel(store.Basic), "a", "b", "c")
	m = send(t, m, press(tea.KeyTab), press(tea.KeyDown), runes("d"))
	if got := strings.Join(texts(m), ","); got != "a,c" {
		t.Errorf("items: got %s, want a,c", got)
	}
}

func TestDeletingLastItemReturnsToInput(t *testing.T) {
	m := addItems(t, newModel(store.Basic), "only")
	m = send(t, m, press(tea.KeyTab), runes("d"))
	if m.State().Len() != 0 {
		t.Fatalf("item not deleted")
	}
	if m.focus != focusInput {
		t.Errorf("focus: got %v, want input", m.focus)
	}
}

func TestDeletingLastItemRestartsCursor(t *testing.T) {
	m := addItems(t, newModel(store.Basic), "only")
	m = send(t, m, press(tea.KeyTab))
	next, cmd := m.Update(runes("d"))
	if got := next.(Model); got.focus != focusInput || !got.draft.Focused() {
		t.Fatalf("focus: got %v, draft focused %v", got.focus, got.draft.Focused())
	}
	if cmd == nil {
		t.Error("refocusing the input returned no cursor command")
	}
}

func TestEditFlow(t *testing.T) {
	m := addItems(t, newModel(store.Editable), "a", "b")
	m = send(t, m, press(tea.KeyTab), press(tea.KeyDown), runes("e"))
	if m.focus != focusEdit {
		t.Fatalf("focus: got %v, want edit", m.focus)
	}
	m = send(t, m, runes("!"), press(tea.KeyEnter))
	if got := strings.Join(texts(m), ","); got != "a,b!" {
		t.Errorf("items: got %s, want a,b!", got)
	}
	if m.focus != focusList {
		t.Errorf("focus after edit: %v", m.focus)
	}
}

func TestBlankEditKeepsEditorOpen(t *testing.T) {
	m := addItems(t, newModel(store.Editable), "a")
	m = send(t, m, press(tea.KeyTab), runes("e"), press(tea.KeyBackspace), press(tea.KeyEnter))
	if m.focus != focusEdit {
		t.Errorf("focus: got %v, want edit", m.focus)
	}
	if got := texts(m); got[0] != "a" {
		t.Errorf("text changed to %q", got[0])
	}
	m = send(t, m, press(tea.KeyEsc))
	if m.focus != focusList {
		t.Errorf("esc did not cancel edit")
	}
}

func TestEditDisabledInBasic(t *testing.T) {
	m := addItems(t, newModel(store.Basic), "a")
	m = send(t, m, press(tea.KeyTab), runes("e"))
	if m.focus == focusEdit {
		t.Error("basic variant entered edit mode")
	}
}

func TestMoveKeepsSelection(t *testing.T) {
	m := addItems(t, newModel(store.Editable), "a", "b", "c")
	m = send(t, m, press(tea.KeyTab), runes("J"), runes("J"))
	if got := strings.Join(texts(m), ","); got != "b,c,a" {
		t.Errorf("items: got %s, want b,c,a", got)
	}
	if m.list.Index() != 2 {
		t.Errorf("selection: got %d, want 2", m.list.Index())
	}
	m = send(t, m, runes("J"))
	if got := strings.Join(texts(m), ","); got != "b,c,a" {
		t.Errorf("move past end changed order: %s", got)
	}
	m = send(t, m, runes("K"))
	if got := strings.Join(texts(m), ","); got != "b,a,c" {
		t.Errorf("items: got %s, want b,a,c", got)
	}
}

func TestTickExpiresItems(t *testing.T) {
	m := addItems(t, newModel(store.Timed), "soon")
	tick := tickMsg(time.Now())
	m = send(t, m, tick, tick)
	if got := m.State().Items[0].Remaining; got != 1 {
		t.Fatalf("Remaining: got %d, want 1", got)
	}
	m = send(t, m, tick)
	if m.State().Len() != 0 {
		t.Errorf("item did not expire")
	}
}

func TestTickClosesEditorOfExpiredItem(t *testing.T) {
	m := addItems(t, newModel(store.Timed), "soon")
	m = send(t, m, press(tea.KeyTab), runes("e"))
	tick := tickMsg(time.Now())
	m = send(t, m, tick, tick, tick)
	if m.focus == focusEdit {
		t.Error("editor still open for expired item")
	}
}

func TestTickIgnoredOutsideTimer(t *testing.T) {
	m := addItems(t, newModel(store.Editable), "stays")
	m = send(t, m, tickMsg(time.Now()))
	if m.State().Len() != 1 {
		t.Error("tick removed item in edit variant")
	}
}

func TestQuit(t *testing.T) {
	m := addItems(t, newModel(store.Basic), "a")
	m = send(t, m, press(tea.KeyTab))
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	// In the input, q is just text.
	m = newModel(store.Basic)
	m = send(t, m, runes("q"))
	if m.State().Draft != "q" {
		t.Errorf("Draft: got %q", m.State().Draft)
	}
}

func TestView(t *testing.T) {
	m := newModel(store.Timed)
	if v := m.View(); !strings.Contains(v, "no items") {
		t.Errorf("empty view: %q", v)
	}
	m = addItems(t, m, "buy milk")
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	v := m.View()
	if !strings.Contains(v, "buy milk") {
		t.Errorf("view missing item: %q", v)
	}
	if !strings.Contains(v, "3s") {
		t.Errorf("view missing countdown: %q", v)
	}
}
