// Package store holds the todo list state and the pure transition function
// that the render layer drives.
package store

import (
	"math"
	"slices"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultTimeLimit is the countdown, in seconds, given to new items in the
// timer variant.
const DefaultTimeLimit = 10

// State is one immutable snapshot of the list. Apply never writes to the
// Items backing array of the state it is given.
type State struct {
	Items []model.Item
	Draft string
	// NextID is the lower bound for the next assigned id.
	NextID int64
}

// Initial returns the empty starting state.
func Initial() State {
	return State{Items: []model.Item{}, NextID: 1}
}

// Len returns the number of items.
func (s State) Len() int { return len(s.Items) }

// IndexOf returns the position of the item with id, or -1.
func (s State) IndexOf(id int64) int {
	return slices.IndexFunc(s.Items, func(it model.Item) bool { return it.ID == id })
}

// Find returns the item with id.
func (s State) Find(id int64) (model.Item, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.Items[i], true
}

// Reducer applies actions for one variant.
type Reducer struct {
	variant Variant
	limit   int
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithVariant selects the widget generation. Defaults to Timed.
func WithVariant(v Variant) Option {
	return func(r *Reducer) { r.variant = v }
}

// WithTimeLimit sets the countdown for new items in the timer variant.
// Non-positive values keep the default.
func WithTimeLimit(seconds int) Option {
	return func(r *Reducer) {
		if seconds > 0 {
			r.limit = seconds
		}
	}
}

// New returns a Reducer.
func New(opts ...Option) *Reducer {
	r := &Reducer{variant: Timed, limit: DefaultTimeLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Variant returns the configured variant.
func (r *Reducer) Variant() Variant { return r.variant }

// TimeLimit returns the countdown given to new items.
func (r *Reducer) TimeLimit() int { return r.limit }

// Apply returns the state that results from applying a to s. Invalid
// actions (empty draft, unknown id, out-of-range index, action outside the
// variant) return s unchanged.
func (r *Reducer) Apply(s State, a Action) State {
	if a == nil || !r.variant.Accepts(a.Kind()) {
		return s
	}
	switch a := a.(type) {
	case SetDraft:
		s.Draft = a.Text
		return s
	case AddItem:
		return r.add(s)
	case DeleteItem:
		return deleteItem(s, a.ID)
	case EditItem:
		return editItem(s, a.ID, a.Text)
	case MoveItem:
		return moveItem(s, a.From, a.To)
	case Tick:
		return tick(s)
	}
	return s
}

func (r *Reducer) add(s State) State {
	if strings.TrimSpace(s.Draft) == "" {
		return s
	}
	id, ok := nextID(s)
	if !ok {
		return s
	}
	it := model.Item{ID: id, Text: s.Draft}
	if r.variant == Timed {
		it.Remaining = r.limit
	}
	items := make([]model.Item, len(s.Items), len(s.Items)+1)
	copy(items, s.Items)
	return State{
		Items:  append(items, it),
		Draft:  "",
		NextID: id + 1,
	}
}

// nextID keeps ids monotonic even when a state was built by hand with
// items but no counter. It reports false once the id space is used up.
func nextID(s State) (int64, bool) {
	id := max(s.NextID, 1)
	for _, it := range s.Items {
		if it.ID >= id {
			if it.ID == math.MaxInt64 {
				return 0, false
			}
			id = it.ID + 1
		}
	}
	return id, id < math.MaxInt64
}

func deleteItem(s State, id int64) State {
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}
	s.Items = slices.Delete(slices.Clone(s.Items), i, i+1)
	return s
}

func editItem(s State, id int64, text string) State {
	if strings.TrimSpace(text) == "" {
		return s
	}
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}
	items := slices.Clone(s.Items)
	items[i].Text = text
	s.Items = items
	return s
}

func moveItem(s State, from, to int) State {
	n := len(s.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s
	}
	if from == to {
		return s
	}
	it := s.Items[from]
	items := slices.Delete(slices.Clone(s.Items), from, from+1)
	s.Items = slices.Insert(items, to, it)
	return s
}

func tick(s State) State {
	items := make([]model.Item, 0, len(s.Items))
	for _, it := range s.Items {
		it.Remaining--
		if it.Remaining > 0 {
			items = append(items, it)
		}
	}
	s.Items = items
	return s
}
