package editor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"revim/internal/terminal"
)

// printable is every character the Insert and Command tables bind directly.
const printable = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	" !@#$%^&*()_+-=[]{}\\|\"':;,.<>/?`~"

// Keymap maps (mode, chord) to an action. It is built once and never changed;
// binding the same chord twice keeps the last action.
type Keymap struct {
	tables map[Mode]map[terminal.Chord]Action
	help   []key.Binding
}

func newKeymap() *Keymap {
	return &Keymap{tables: map[Mode]map[terminal.Chord]Action{
		ModeNormal:  {},
		ModeInsert:  {},
		ModeCommand: {},
	}}
}

// bind maps chords to a in mode m. Normal-mode bindings with a description
// are listed by :help.
func (k *Keymap) bind(m Mode, a Action, desc string, chords ...terminal.Chord) {
	names := make([]string, 0, len(chords))
	for _, c := range chords {
		k.tables[m][c] = a
		names = append(names, c.String())
	}
	if m == ModeNormal && desc != "" {
		k.help = append(k.help, key.NewBinding(
			key.WithKeys(names...),
			key.WithHelp(strings.Join(names, "/"), desc),
		))
	}
}

// Lookup finds the action for chord in mode. Shift is implied by the rune of
// a printable chord, so it is ignored there.
func (k *Keymap) Lookup(m Mode, c terminal.Chord) (Action, bool) {
	if c.Code == terminal.KeyRune {
		c.Mod &^= terminal.ModShift
	}
	a, ok := k.tables[m][c]
	return a, ok
}

// Fallback handles chords missing from the tables: any other printable rune
// is typed in Insert mode and appended in Command mode.
func Fallback(m Mode, c terminal.Chord) (Action, bool) {
	if c.Code != terminal.KeyRune || c.Mod&^terminal.ModShift != 0 || !unicode.IsPrint(c.Rune) {
		return Action{}, false
	}
	switch m {
	case ModeInsert:
		return Action{Kind: ActInsertRune, Rune: c.Rune}, true
	case ModeCommand:
		return Action{Kind: ActCommandAppend, Rune: c.Rune}, true
	}
	return Action{}, false
}

// Help renders the Normal-mode bindings on one line of at most width cells.
func (k *Keymap) Help(width int) string {
	h := help.New()
	h.Width = width
	return ansi.Strip(h.ShortHelpView(k.help))
}

// DefaultKeymap builds the editor's bindings.
func DefaultKeymap() *Keymap {
	k := newKeymap()
	rn, ctrl, code := terminal.Rune, terminal.Ctrl, terminal.Key

	left := Action{Kind: ActMoveHorizontal, Delta: -1}
	right := Action{Kind: ActMoveHorizontal, Delta: 1}
	up := Action{Kind: ActMoveVertical, Delta: -1}
	down := Action{Kind: ActMoveVertical, Delta: 1}
	toNormal := Action{Kind: ActSetMode, Mode: ModeNormal}

	// Normal
	k.bind(ModeNormal, left, "left", rn('h'), code(terminal.KeyLeft))
	k.bind(ModeNormal, down, "down", rn('j'), code(terminal.KeyDown))
	k.bind(ModeNormal, up, "up", rn('k'), code(terminal.KeyUp))
	k.bind(ModeNormal, right, "right", rn('l'), code(terminal.KeyRight))
	k.bind(ModeNormal, Action{Kind: ActLineStart}, "line start", rn('0'), code(terminal.KeyHome))
	k.bind(ModeNormal, Action{Kind: ActLineEnd}, "line end", rn('$'), code(terminal.KeyEnd))
	k.bind(ModeNormal, Action{Kind: ActSetMode, Mode: ModeInsert}, "insert", rn('i'), code(terminal.KeyInsert))
	k.bind(ModeNormal, Action{Kind: ActAppend}, "append", rn('a'))
	k.bind(ModeNormal, Action{Kind: ActAppendEnd}, "append at end", rn('A'))
	k.bind(ModeNormal, Action{Kind: ActOpenBelow}, "open line", rn('o'))
	k.bind(ModeNormal, Action{Kind: ActDeleteChar}, "delete", rn('x'), code(terminal.KeyDelete))
	k.bind(ModeNormal, Action{Kind: ActScrollLine, Delta: 1}, "scroll down", ctrl('e'))
	k.bind(ModeNormal, Action{Kind: ActScrollLine, Delta: -1}, "scroll up", ctrl('y'))
	k.bind(ModeNormal, Action{Kind: ActScrollPage, Delta: 1}, "page down", ctrl('f'), code(terminal.KeyPageDown))
	k.bind(ModeNormal, Action{Kind: ActScrollPage, Delta: -1}, "page up", ctrl('b'), code(terminal.KeyPageUp))
	k.bind(ModeNormal, Action{Kind: ActRedraw}, "redraw", ctrl('l'))
	k.bind(ModeNormal, Action{Kind: ActSetMode, Mode: ModeCommand}, "command", rn(':'))
	k.bind(ModeNormal, Action{Kind: ActQuit}, "quit", code(terminal.KeyEsc))

	// Insert
	for _, r := range printable {
		k.bind(ModeInsert, Action{Kind: ActInsertRune, Rune: r}, "", rn(r))
	}
	k.bind(ModeInsert, toNormal, "", code(terminal.KeyEsc), ctrl('c'))
	k.bind(ModeInsert, Action{Kind: ActDeleteBackward}, "", code(terminal.KeyBackspace), ctrl('h'))
	k.bind(ModeInsert, Action{Kind: ActDeleteForward}, "", code(terminal.KeyDelete))
	k.bind(ModeInsert, Action{Kind: ActInsertNewline}, "", code(terminal.KeyEnter))
	k.bind(ModeInsert, Action{Kind: ActInsertTab}, "", code(terminal.KeyTab))
	k.bind(ModeInsert, left, "", code(terminal.KeyLeft))
	k.bind(ModeInsert, right, "", code(terminal.KeyRight))
	k.bind(ModeInsert, up, "", code(terminal.KeyUp))
	k.bind(ModeInsert, down, "", code(terminal.KeyDown))
	k.bind(ModeInsert, Action{Kind: ActLineStart}, "", code(terminal.KeyHome))
	k.bind(ModeInsert, Action{Kind: ActLineEnd}, "", code(terminal.KeyEnd))

	// Command
	for _, r := range printable {
		k.bind(ModeCommand, Action{Kind: ActCommandAppend, Rune: r}, "", rn(r))
	}
	k.bind(ModeCommand, toNormal, "", code(terminal.KeyEsc), ctrl('c'))
	k.bind(ModeCommand, Action{Kind: ActCommandExecute}, "", code(terminal.KeyEnter))
	k.bind(ModeCommand, Action{Kind: ActCommandBackspace}, "", code(terminal.KeyBackspace), ctrl('h'))

	return k
}
