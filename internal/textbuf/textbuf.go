// Package textbuf is the editor's text store: a slice of lines, each a slice
// of runes, with the file it came from.
package textbuf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"revim/internal/config"
)

// DefaultFileName is where a buffer without a path is written.
const DefaultFileName = "new_text.txt"

// Pos is a document position: X is a rune index, Y a line index.
type Pos struct {
	X, Y int
}

// Buffer is a document held as a slice of lines.
type Buffer struct {
	lines        [][]rune
	path         string
	dirty        bool
	finalNewline bool
	// emptySource is set when the buffer started with no bytes at all; left
	// blank, it is written back empty.
	emptySource bool
}

// New returns an empty one-line buffer.
func New() *Buffer {
	return &Buffer{lines: [][]rune{{}}, finalNewline: true, emptySource: true}
}

// FromString builds a buffer from text. CRLF and lone CR line endings become
// LF; a single trailing newline is remembered rather than kept as a line.
// Empty text stays empty when written back unchanged.
func FromString(text string) *Buffer {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	b := &Buffer{
		finalNewline: text == "" || strings.HasSuffix(text, "\n"),
		emptySource:  text == "",
	}
	text = strings.TrimSuffix(text, "\n")
	for _, l := range strings.Split(text, "\n") {
		b.lines = append(b.lines, []rune(l))
	}
	return b
}

// Open loads path. A file that does not exist yet opens as an empty buffer
// that will be created on the first save.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		b := New()
		b.path = path
		log.Debug().Str("path", path).Msg("new file")
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	b := FromString(string(data))
	b.path = path
	log.Debug().Str("path", path).Int("lines", len(b.lines)).Msg("file loaded")
	return b, nil
}

func (b *Buffer) Path() string { return b.path }

// Dirty reports unsaved changes.
func (b *Buffer) Dirty() bool { return b.dirty }

func (b *Buffer) LineCount() int { return len(b.lines) }

func (b *Buffer) valid(y int) bool { return y >= 0 && y < len(b.lines) }

// Line returns line y without its line ending, or "" if y is out of range.
func (b *Buffer) Line(y int) string {
	if !b.valid(y) {
		return ""
	}
	return string(b.lines[y])
}

// LineLen returns the number of runes on line y.
func (b *Buffer) LineLen(y int) int {
	if !b.valid(y) {
		return 0
	}
	return len(b.lines[y])
}

// LinesInRange returns lines [start, end), clipped to the document.
func (b *Buffer) LinesInRange(start, end int) []string {
	start, end = max(start, 0), min(end, len(b.lines))
	if start >= end {
		return nil
	}
	out := make([]string, 0, end-start)
	for _, l := range b.lines[start:end] {
		out = append(out, string(l))
	}
	return out
}

func (b *Buffer) clampPos(p Pos) Pos {
	p.Y = min(max(p.Y, 0), len(b.lines)-1)
	p.X = min(max(p.X, 0), len(b.lines[p.Y]))
	return p
}

// InsertChar inserts r before rune x of line y. A newline rune splits the line.
func (b *Buffer) InsertChar(x, y int, r rune) {
	if r == '\n' {
		b.InsertLineBreak(x, y)
		return
	}
	p := b.clampPos(Pos{x, y})
	line := b.lines[p.Y]
	line = append(line[:p.X], append([]rune{r}, line[p.X:]...)...)
	b.lines[p.Y] = line
	b.dirty = true
}

// InsertLineBreak splits line y at rune x; the tail becomes line y+1.
func (b *Buffer) InsertLineBreak(x, y int) {
	p := b.clampPos(Pos{x, y})
	line := b.lines[p.Y]
	head := append([]rune(nil), line[:p.X]...)
	tail := append([]rune(nil), line[p.X:]...)
	b.lines[p.Y] = head
	b.lines = append(b.lines[:p.Y+1], append([][]rune{tail}, b.lines[p.Y+1:]...)...)
	b.dirty = true
}

// RemoveRange deletes the text between from (inclusive) and to (exclusive).
// A range ending at the start of the next line removes the line break,
// joining the two lines.
func (b *Buffer) RemoveRange(from, to Pos) {
	from, to = b.clampPos(from), b.clampPos(to)
	if to.Y < from.Y || (to.Y == from.Y && to.X < from.X) {
		from, to = to, from
	}
	if from == to {
		return
	}
	joined := append(append([]rune(nil), b.lines[from.Y][:from.X]...), b.lines[to.Y][to.X:]...)
	b.lines[from.Y] = joined
	b.lines = append(b.lines[:from.Y+1], b.lines[to.Y+1:]...)
	b.dirty = true
}

func (b *Buffer) blank() bool { return len(b.lines) == 1 && len(b.lines[0]) == 0 }

// Text returns the whole document as it would be written to disk.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, l := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(l))
	}
	if b.finalNewline && !(b.emptySource && b.blank()) {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save writes the buffer to name, or to its own path when name is empty, or
// to DefaultFileName when it has neither. The saved path becomes the buffer's
// path. It returns the number of bytes written.
func (b *Buffer) Save(name string) (int, error) {
	path := name
	if path == "" {
		path = b.path
	}
	if path == "" {
		path = DefaultFileName
	}

	mode := fs.FileMode(0644)
	info, statErr := os.Stat(path)
	if statErr == nil {
		mode = info.Mode().Perm()
	}
	data := []byte(b.Text())
	if err := os.WriteFile(path, data, mode); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if statErr != nil {
		config.FixOwnership(path)
	}

	b.path = path
	b.dirty = false
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("file saved")
	return len(data), nil
}
