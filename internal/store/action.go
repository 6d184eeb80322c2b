package store

// Kind names an action for variant gating and logging.
type Kind string

const (
	KindSetDraft Kind = "set_draft"
	KindAdd      Kind = "add"
	KindDelete   Kind = "delete"
	KindEdit     Kind = "edit"
	KindMove     Kind = "move"
	KindTick     Kind = "tick"
)

// Action is a discrete request to transition the list state.
// The set of actions is closed; only this package implements it.
type Action interface {
	Kind() Kind
	action()
}

// SetDraft replaces the pending input buffer.
type SetDraft struct{ Text string }

// AddItem commits the draft as a new item at the end of the list.
type AddItem struct{}

// DeleteItem removes the item with the given id.
type DeleteItem struct{ ID int64 }

// EditItem replaces the text of the item with the given id.
type EditItem struct {
	ID   int64
	Text string
}

// MoveItem moves the item at From so that it ends up at To.
type MoveItem struct{ From, To int }

// Tick ages every item by one second and drops expired ones.
type Tick struct{}

func (SetDraft) Kind() Kind   { return KindSetDraft }
func (AddItem) Kind() Kind    { return KindAdd }
func (DeleteItem) Kind() Kind { return KindDelete }
func (EditItem) Kind() Kind   { return KindEdit }
func (MoveItem) Kind() Kind   { return KindMove }
func (Tick) Kind() Kind       { return KindTick }

func (SetDraft) action()   {}
func (AddItem) action()    {}
func (DeleteItem) action() {}
func (EditItem) action()   {}
func (MoveItem) action()   {}
func (Tick) action()       {}
