package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Chord
	}{
		{"letters", "aZ", []Chord{Rune('a'), Rune('Z')}},
		{"utf8", "é世", []Chord{Rune('é'), Rune('世')}},
		{"enter cr", "\r", []Chord{Key(KeyEnter)}},
		{"enter lf", "\n", []Chord{Key(KeyEnter)}},
		{"tab", "\t", []Chord{Key(KeyTab)}},
		{"backspace", "\x7f", []Chord{Key(KeyBackspace)}},
		{"ctrl-h", "\x08", []Chord{Ctrl('h')}},
		{"ctrl-c", "\x03", []Chord{Ctrl('c')}},
		{"ctrl-e ctrl-y", "\x05\x19", []Chord{Ctrl('e'), Ctrl('y')}},
		{"ctrl-backslash", "\x1c", []Chord{Ctrl('\\')}},
		{"ctrl-space", "\x00", []Chord{Ctrl(' ')}},
		{"lone esc", "\x1b", []Chord{Key(KeyEsc)}},
		{"double esc", "\x1b\x1b", []Chord{Key(KeyEsc), Key(KeyEsc)}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []Chord{Key(KeyUp), Key(KeyDown), Key(KeyRight), Key(KeyLeft)}},
		{"ss3 arrows", "\x1bOA\x1bOH", []Chord{Key(KeyUp), Key(KeyHome)}},
		{"tilde keys", "\x1b[3~\x1b[5~\x1b[6~\x1b[2~", []Chord{Key(KeyDelete), Key(KeyPageUp), Key(KeyPageDown), Key(KeyInsert)}},
		{"home end variants", "\x1b[1~\x1b[4~\x1b[7~\x1b[8~\x1b[H\x1b[F", []Chord{
			Key(KeyHome), Key(KeyEnd), Key(KeyHome), Key(KeyEnd), Key(KeyHome), Key(KeyEnd),
		}},
		{"ctrl up", "\x1b[1;5A", []Chord{{Code: KeyUp, Mod: ModCtrl}}},
		{"shift delete", "\x1b[3;2~", []Chord{{Code: KeyDelete, Mod: ModShift}}},
		{"esc then letter", "\x1bj", []Chord{Key(KeyEsc), Rune('j')}},
		{"esc then colon", "\x1b:", []Chord{Key(KeyEsc), Rune(':')}},
		{"esc then wide rune", "\x1b世", []Chord{Key(KeyEsc), Rune('世')}},
		{"alt via csi modifier", "\x1b[1;3C", []Chord{{Code: KeyRight, Mod: ModAlt}}},
		{"unknown csi dropped", "\x1b[99~a", []Chord{Rune('a')}},
		{"unknown final dropped", "\x1b[5Zb", []Chord{Rune('b')}},
		{"truncated csi", "\x1b[1", []Chord{Key(KeyEsc), Rune('['), Rune('1')}},
		{"truncated ss3", "\x1bO", []Chord{Key(KeyEsc), Rune('O')}},
		{"combining mark", "e\u0301", []Chord{Rune('e'), Rune('\u0301')}},
		{"invalid utf8", "\xffq", []Chord{Rune('q')}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode([]byte(tt.in)))
		})
	}
}

func TestDecoderHoldsSplitSequence(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, []Chord{Rune('j')}, d.Feed([]byte("j\x1b")))
	assert.True(t, d.Pending())
	assert.Equal(t, []Chord{Key(KeyDown)}, d.Feed([]byte("[B")))
	assert.False(t, d.Pending())
}

func TestDecoderHoldsTruncatedCSI(t *testing.T) {
	d := NewDecoder()
	assert.Empty(t, d.Feed([]byte("\x1b[")))
	assert.Empty(t, d.Feed([]byte("1;5")))
	assert.Equal(t, []Chord{{Code: KeyUp, Mod: ModCtrl}}, d.Feed([]byte("A")))
}

func TestDecoderHoldsSplitRune(t *testing.T) {
	d := NewDecoder()
	b := []byte("世")
	assert.Empty(t, d.Feed(b[:2]))
	assert.Equal(t, []Chord{Rune('世')}, d.Feed(b[2:]))
}

func TestDecoderFlushLoneEsc(t *testing.T) {
	d := NewDecoder()
	assert.Empty(t, d.Feed([]byte{esc}))
	assert.Equal(t, []Chord{Key(KeyEsc)}, d.Flush())
	assert.False(t, d.Pending())
	assert.Nil(t, d.Flush())
}

func TestDecoderFlushUnfinishedCSI(t *testing.T) {
	d := NewDecoder()
	assert.Empty(t, d.Feed([]byte("\x1b[")))
	assert.Equal(t, []Chord{Key(KeyEsc), Rune('[')}, d.Flush())
}

func TestDecoderArrowsAcrossEveryBoundary(t *testing.T) {
	in := []byte(strings.Repeat("\x1b[B", 10))
	for split := 1; split < len(in); split++ {
		d := NewDecoder()
		got := append(d.Feed(in[:split]), d.Feed(in[split:])...)
		require.Len(t, got, 10, "split at %d", split)
		for _, c := range got {
			assert.Equal(t, Key(KeyDown), c, "split at %d", split)
		}
		assert.False(t, d.Pending())
	}
}

func TestChordString(t *testing.T) {
	assert.Equal(t, "a", Rune('a').String())
	assert.Equal(t, "space", Rune(' ').String())
	assert.Equal(t, "ctrl+e", Ctrl('e').String())
	assert.Equal(t, "esc", Key(KeyEsc).String())
	assert.Equal(t, "ctrl+shift+up", Chord{Code: KeyUp, Mod: ModCtrl | ModShift}.String())
	assert.Equal(t, "alt+x", Chord{Code: KeyRune, Rune: 'x', Mod: ModAlt}.String())
}
