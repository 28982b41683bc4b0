package key

import "strings"

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "ArrowUp",
	KeyDown:      "ArrowDown",
	KeyLeft:      "ArrowLeft",
	KeyRight:     "ArrowRight",
	KeySpace:     "Space",
	KeyRune:      "Rune",
}

// domNames maps DOM key names (lowercased) to keys.
var domNames = map[string]Key{
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"enter":      KeyEnter,
	"return":     KeyEnter,
	"tab":        KeyTab,
	"backspace":  KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pagedown":   KeyPageDown,
	"arrowup":    KeyUp,
	"up":         KeyUp,
	"arrowdown":  KeyDown,
	"down":       KeyDown,
	"arrowleft":  KeyLeft,
	"left":       KeyLeft,
	"arrowright": KeyRight,
	"right":      KeyRight,
	"space":      KeySpace,
	" ":          KeySpace,
}

// String returns the DOM name of the key.
func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsNavigation reports whether the key moves the caret.
func (k Key) IsNavigation() bool {
	switch k {
	case KeyHome, KeyEnd, KeyPageUp, KeyPageDown, KeyUp, KeyDown, KeyLeft, KeyRight:
		return true
	}
	return false
}

// IsEditing reports whether the key changes content.
func (k Key) IsEditing() bool {
	switch k {
	case KeyEnter, KeyTab, KeyBackspace, KeyDelete, KeySpace, KeyRune:
		return true
	}
	return false
}

// Lookup maps a DOM key name to a key. Single characters map to KeyRune.
func Lookup(name string) (Key, rune) {
	if k, ok := domNames[strings.ToLower(name)]; ok {
		if k == KeySpace {
			return k, ' '
		}
		return k, 0
	}
	runes := []rune(name)
	if len(runes) == 1 {
		return KeyRune, runes[0]
	}
	return KeyNone, 0
}
