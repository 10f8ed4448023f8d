package terminal

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

const esc = 0x1b

// maxHeld bounds how much unfinished input a Decoder keeps between reads.
const maxHeld = 4096

var csiFinals = map[byte]KeyCode{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

var csiTilde = map[int]KeyCode{
	1: KeyHome,
	2: KeyInsert,
	3: KeyDelete,
	4: KeyEnd,
	5: KeyPageUp,
	6: KeyPageDown,
	7: KeyHome,
	8: KeyEnd,
}

// Decoder turns raw terminal input into key chords. Input may arrive in any
// pieces: a sequence cut off at the end of one read is held until the next,
// or until Flush.
type Decoder struct {
	p    *ansi.Parser
	held []byte
}

// NewDecoder returns a Decoder with nothing held.
func NewDecoder() *Decoder {
	return &Decoder{p: ansi.NewParser()}
}

// Feed decodes b after whatever was held from the previous call.
func (d *Decoder) Feed(b []byte) []Chord {
	if len(d.held) > 0 {
		b = append(d.held, b...)
		d.held = nil
	}
	out, rest := d.decode(b, false)
	if len(rest) > maxHeld {
		more, _ := d.decode(rest, true)
		return append(out, more...)
	}
	if len(rest) > 0 {
		d.held = append([]byte(nil), rest...)
	}
	return out
}

// Pending reports whether input is held waiting for the rest of a sequence.
func (d *Decoder) Pending() bool { return len(d.held) > 0 }

// Flush decodes held input as it stands, once no more is coming. A held ESC
// is the Escape key, and anything after it is typed input.
func (d *Decoder) Flush() []Chord {
	if len(d.held) == 0 {
		return nil
	}
	b := d.held
	d.held = nil
	out, _ := d.decode(b, true)
	return out
}

// Decode decodes b as complete input. Sequences it does not recognise are
// dropped.
func Decode(b []byte) []Chord {
	out, _ := NewDecoder().decode(b, true)
	return out
}

// decode consumes b and returns the chords found plus the unfinished tail.
// With final set there is no tail: an unfinished sequence is taken apart.
func (d *Decoder) decode(b []byte, final bool) ([]Chord, []byte) {
	var out []Chord
	for len(b) > 0 {
		if b[0] >= 0xc0 && !utf8.FullRune(b) && !final {
			return out, b
		}
		seq, _, n, state := ansi.DecodeSequence(b, ansi.NormalState, d.p)
		if state != ansi.NormalState {
			if !final {
				return out, b
			}
			if b[0] == esc {
				out = append(out, Key(KeyEsc))
			}
			b = b[1:]
			continue
		}
		if n == 0 || len(seq) == 0 {
			b = b[1:]
			continue
		}

		if string(seq) == "\x1bO" {
			// SS3 keys carry their final byte after what the parser sees as a
			// complete two-byte escape.
			if len(b) > 2 {
				if code, ok := csiFinals[b[2]]; ok {
					out = append(out, Key(code))
				}
				b = b[3:]
				continue
			}
			if !final {
				return out, b
			}
		}

		out = d.appendSeq(out, seq)
		b = b[n:]
	}
	return out, nil
}

func (d *Decoder) appendSeq(out []Chord, seq []byte) []Chord {
	switch c := seq[0]; {
	case len(seq) == 1 && (c < 0x20 || c == 0x7f):
		if ch, ok := controlChord(c); ok {
			out = append(out, ch)
		}
	case c == esc && len(seq) > 1 && seq[1] == '[':
		if ch, ok := d.csiChord(); ok {
			out = append(out, ch)
		}
	case c == esc:
		// ESC followed by plain bytes is the Escape key typed ahead of them.
		rest, _ := d.decode(seq[1:], true)
		out = append(out, Key(KeyEsc))
		out = append(out, rest...)
	case c >= 0x80 && c < 0xc0:
		// C1 controls and sequences
	default:
		for len(seq) > 0 {
			r, size := utf8.DecodeRune(seq)
			if r != utf8.RuneError || size > 1 {
				out = append(out, Rune(r))
			}
			seq = seq[size:]
		}
	}
	return out
}

// csiChord maps the CSI sequence just decoded. Modifiers arrive xterm style
// as the second parameter, e.g. ESC [ 1 ; 5 A for Ctrl+Up.
func (d *Decoder) csiChord() (Chord, bool) {
	cmd := ansi.Cmd(d.p.Command())
	if cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return Chord{}, false
	}
	var c Chord
	if code, ok := csiFinals[cmd.Final()]; ok {
		c = Key(code)
	} else if cmd.Final() == '~' {
		num, _ := d.p.Param(0, 0)
		code, ok := csiTilde[num]
		if !ok {
			return Chord{}, false
		}
		c = Key(code)
	} else {
		return Chord{}, false
	}
	if m, ok := d.p.Param(1, 1); ok && m > 1 {
		c.Mod = modifierFromParam(m - 1)
	}
	return c, true
}

func controlChord(c byte) (Chord, bool) {
	switch {
	case c == '\r' || c == '\n':
		return Key(KeyEnter), true
	case c == '\t':
		return Key(KeyTab), true
	case c == 0x7f:
		return Key(KeyBackspace), true
	case c == 0:
		return Ctrl(' '), true
	case c < 27:
		return Ctrl(rune('a' + c - 1)), true
	case c > 27 && c < 32:
		return Ctrl(rune('\\' + c - 28)), true
	}
	return Chord{}, false
}

func modifierFromParam(bits int) Modifier {
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}
