package model

// Item is the domain model for a todo entry.
// Remaining is only tracked by the timer variant; it counts whole seconds
// left before the item expires.
type Item struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Remaining int    `json:"remaining,omitempty"`
}
