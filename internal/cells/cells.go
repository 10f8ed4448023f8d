// Package cells maps document text onto terminal cells. The cursor model and
// the renderer both go through here so a column means the same thing to each.
package cells

import "github.com/mattn/go-runewidth"

// DefaultTabWidth is the number of columns a tab character expands to.
const DefaultTabWidth = 4

// Continuation fills the second cell of a double-width rune.
const Continuation rune = 0

// Width returns the number of columns r occupies on screen.
func Width(r rune, tabWidth int) int {
	switch {
	case r == '\t':
		return tabWidth
	case isControl(r):
		return 1
	case r < 0x80:
		return 1
	}
	return runewidth.RuneWidth(r)
}

// Column returns the display column at which line[idx] starts.
func Column(line []rune, idx, tabWidth int) int {
	if idx > len(line) {
		idx = len(line)
	}
	col := 0
	for _, r := range line[:idx] {
		col += Width(r, tabWidth)
	}
	return col
}

// Index returns the rune index covering display column col. Columns past the
// end of the line map to len(line).
func Index(line []rune, col, tabWidth int) int {
	c := 0
	for i, r := range line {
		w := Width(r, tabWidth)
		if col < c+w {
			return i
		}
		c += w
	}
	return len(line)
}

// Fit expands line into exactly width cells: tabs become spaces, wide runes
// take a Continuation cell, control characters show as '?', and the result
// is truncated or right-padded with spaces. A wide rune that would straddle
// the right edge is dropped.
func Fit(line []rune, width, tabWidth int) []rune {
	if width <= 0 {
		return []rune{}
	}
	row := make([]rune, 0, width)
	for _, r := range line {
		w := Width(r, tabWidth)
		if len(row)+w > width {
			break
		}
		switch {
		case r == '\t':
			for i := 0; i < w; i++ {
				row = append(row, ' ')
			}
		case isControl(r):
			row = append(row, '?')
		case w == 0:
			// combining marks have no cell of their own
		case w == 2:
			row = append(row, r, Continuation)
		default:
			row = append(row, r)
		}
	}
	for len(row) < width {
		row = append(row, ' ')
	}
	return row
}

// FitString is Fit for a string.
func FitString(s string, width, tabWidth int) []rune {
	return Fit([]rune(s), width, tabWidth)
}

// String renders cells back into printable text, skipping continuation cells.
func String(row []rune) string {
	out := make([]rune, 0, len(row))
	for _, r := range row {
		if r == Continuation {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func isControl(r rune) bool {
	return r != '\t' && (r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0))
}
