package terminal

import (
	"strings"
)

// KeyCode identifies a key. Printable input is KeyRune with the rune set.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyEsc
	KeyEnter
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
)

var keyNames = map[KeyCode]string{
	KeyEsc:       "esc",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
}

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
)

// Chord is one key press: a key plus the modifiers held with it.
type Chord struct {
	Code KeyCode
	Rune rune
	Mod  Modifier
}

// Rune returns the chord for typing r.
func Rune(r rune) Chord { return Chord{Code: KeyRune, Rune: r} }

// Ctrl returns the chord for Ctrl+r.
func Ctrl(r rune) Chord { return Chord{Code: KeyRune, Rune: r, Mod: ModCtrl} }

// Key returns the chord for a named key without modifiers.
func Key(code KeyCode) Chord { return Chord{Code: code} }

func (c Chord) String() string {
	var sb strings.Builder
	if c.Mod&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if c.Mod&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if c.Mod&ModShift != 0 {
		sb.WriteString("shift+")
	}
	if c.Code == KeyRune {
		if c.Rune == ' ' {
			sb.WriteString("space")
		} else {
			sb.WriteRune(c.Rune)
		}
		return sb.String()
	}
	sb.WriteString(keyNames[c.Code])
	return sb.String()
}

// Event is something read from the terminal: a KeyEvent or a ResizeEvent.
type Event interface {
	event()
}

// KeyEvent is a key press.
type KeyEvent struct {
	Chord
}

// ResizeEvent reports the new terminal size in cells.
type ResizeEvent struct {
	Width, Height int
}

func (KeyEvent) event()    {}
func (ResizeEvent) event() {}
