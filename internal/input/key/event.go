package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event is one key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Parse reads specs like "Enter", "Shift+Enter" or "Ctrl+b".
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, fmt.Errorf("key: empty spec")
	}
	parts := strings.Split(spec, "+")
	// "Ctrl++" names the plus key.
	if len(parts) > 1 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], "+")
	}
	var ev Event
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("key: unknown modifier %q in %q", p, spec)
		}
		ev.Modifiers = ev.Modifiers.With(mod)
	}
	last := parts[len(parts)-1]
	ev.Key, ev.Rune = Lookup(last)
	if ev.Key == KeyNone {
		return Event{}, fmt.Errorf("key: unknown key %q in %q", last, spec)
	}
	return ev, nil
}

// IsChar reports whether the event types a printable character.
func (e Event) IsChar() bool {
	return (e.Key == KeyRune || e.Key == KeySpace) && unicode.IsPrint(e.Rune) &&
		!e.Modifiers.Has(ModCtrl) && !e.Modifiers.Has(ModMeta)
}

// IsNewline reports whether the event starts a new block: Enter without
// Shift.
func (e Event) IsNewline() bool {
	return e.Key == KeyEnter && !e.Modifiers.Has(ModShift)
}

// String returns the canonical spec form.
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
	}
	if m := e.Modifiers.String(); m != "" {
		return m + "+" + name
	}
	return name
}
