package store

import (
	"fmt"
	"strings"
)

// Variant selects which generation of the widget the reducer behaves as.
type Variant int

const (
	// Basic supports drafting, adding and deleting.
	Basic Variant = iota
	// Editable adds in-place edits and reordering.
	Editable
	// Timed adds a per-item countdown driven by Tick.
	Timed
)

var variantNames = map[Variant]string{
	Basic:    "basic",
	Editable: "edit",
	Timed:    "timer",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant accepts the names printed by String plus a few aliases.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic", "v1", "":
		return Basic, nil
	case "edit", "editable", "v2":
		return Editable, nil
	case "timer", "timed", "v3":
		return Timed, nil
	}
	return Basic, fmt.Errorf("unknown variant %q (want basic, edit or timer)", s)
}

// Accepts reports whether actions of kind k have any effect in v.
func (v Variant) Accepts(k Kind) bool {
	switch k {
	case KindSetDraft, KindAdd, KindDelete:
		return true
	case KindEdit, KindMove:
		return v >= Editable
	case KindTick:
		return v == Timed
	}
	return false
}
