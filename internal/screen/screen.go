// Package screen holds the last rendered frame as a flat grid of cells and
// tracks which rows changed since the last flush.
package screen

import (
	"slices"
	"strings"

	"revim/internal/cells"
)

// Buffer is a width*height grid of cells, row-major. It is a render cache:
// document code never reads it.
type Buffer struct {
	width  int
	height int
	cells  []rune

	dirty  []int
	queued []bool
}

// New returns a blank buffer. Nothing is dirty until a row is replaced.
func New(width, height int) *Buffer {
	width, height = max(width, 0), max(height, 0)
	b := &Buffer{
		width:  width,
		height: height,
		cells:  make([]rune, width*height),
		queued: make([]bool, height),
	}
	for i := range b.cells {
		b.cells[i] = ' '
	}
	return b
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) row(i int) []rune {
	return b.cells[i*b.width : (i+1)*b.width]
}

// ReplaceRow overwrites row i with content, fitted to the buffer width, and
// marks it dirty if anything changed. Rows outside the grid are ignored.
func (b *Buffer) ReplaceRow(i int, content []rune) {
	if i < 0 || i >= b.height {
		return
	}
	next := fitCells(content, b.width)
	dst := b.row(i)
	if slices.Equal(dst, next) {
		return
	}
	copy(dst, next)
	b.mark(i)
}

// InsertCharInRow inserts ch at column col of row i, shifting the rest of the
// row right and dropping whatever falls off the edge. Tabs become tabWidth
// spaces. Inserting at or past the right edge changes nothing.
func (b *Buffer) InsertCharInRow(i, col int, ch rune, tabWidth int) {
	if i < 0 || i >= b.height || col < 0 || col >= b.width {
		return
	}
	old := b.row(i)
	w := cells.Width(ch, tabWidth)
	next := make([]rune, 0, b.width+w)
	next = append(next, old[:col]...)
	if col > 0 && old[col] == cells.Continuation {
		// col lands inside a wide rune; blank its first half
		next[col-1] = ' '
	}
	switch {
	case ch == '\t':
		next = append(next, []rune(strings.Repeat(" ", w))...)
	case w == 2:
		next = append(next, ch, cells.Continuation)
	case w == 1:
		next = append(next, ch)
	}
	rest := old[col:]
	if len(rest) > 0 && rest[0] == cells.Continuation {
		rest = append([]rune{' '}, rest[1:]...)
	}
	next = append(next, rest...)
	b.ReplaceRow(i, next)
}

// DrainDirty returns the dirty rows in the order they were first marked and
// clears the set.
func (b *Buffer) DrainDirty() []int {
	rows := b.dirty
	b.dirty = nil
	for _, r := range rows {
		b.queued[r] = false
	}
	return rows
}

// Invalidate marks every row dirty, for when the terminal lost its contents.
func (b *Buffer) Invalidate() {
	for i := 0; i < b.height; i++ {
		b.mark(i)
	}
}

// MarkDirty queues row i for the next flush even though its cells are
// unchanged, e.g. when only its style differs.
func (b *Buffer) MarkDirty(i int) {
	if i >= 0 && i < b.height {
		b.mark(i)
	}
}

// Row returns row i as printable text.
func (b *Buffer) Row(i int) string {
	if i < 0 || i >= b.height {
		return ""
	}
	return cells.String(b.row(i))
}

// Cells returns a copy of row i's cells.
func (b *Buffer) Cells(i int) []rune {
	if i < 0 || i >= b.height {
		return nil
	}
	return slices.Clone(b.row(i))
}

func (b *Buffer) mark(i int) {
	if b.queued[i] {
		return
	}
	b.queued[i] = true
	b.dirty = append(b.dirty, i)
}

// fitCells truncates or pads already-expanded cells to width without
// splitting a wide rune.
func fitCells(content []rune, width int) []rune {
	out := make([]rune, width)
	n := copy(out, content)
	for i := n; i < width; i++ {
		out[i] = ' '
	}
	if width > 0 && n == width && len(content) > width && content[width] == cells.Continuation {
		out[width-1] = ' '
	}
	return out
}
