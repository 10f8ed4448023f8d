// Package render keeps the screen buffer in sync with the visible part of the
// document and writes only the rows that changed.
//
// The grid has the text rows first, then a status row and a message row. All
// of them go through the same dirty-row mechanism.
package render

import (
	"fmt"
	"strings"

	"revim/internal/cells"
	"revim/internal/screen"
)

// Backend is the part of the terminal the pipeline draws through. Writes are
// buffered until Flush.
type Backend interface {
	MoveCursor(x, y int)
	Write(s string)
	ShowCursor()
	HideCursor()
	Flush() error
}

// Document is the read side of the text store used for drawing.
type Document interface {
	LinesInRange(start, end int) []string
}

// Pipeline keeps the screen buffer in step with the document and writes the
// changed rows to a Backend.
type Pipeline struct {
	out      Backend
	grid     *screen.Buffer
	rows     int
	tabWidth int
	styles   Styles

	badge  int
	msgErr bool
}

// New returns a pipeline for a terminal of width x height cells.
func New(out Backend, width, height, tabWidth int, styles Styles) *Pipeline {
	if tabWidth <= 0 {
		tabWidth = cells.DefaultTabWidth
	}
	p := &Pipeline{out: out, tabWidth: tabWidth, styles: styles}
	p.Resize(width, height)
	return p
}

// Resize rebuilds the grid for new terminal dimensions. Every row is dirty
// afterwards since the terminal may have reflowed.
func (p *Pipeline) Resize(width, height int) {
	p.grid = screen.New(width, height)
	p.rows = max(height-2, 0)
	p.grid.Invalidate()
}

// TextRows is the number of rows available for document text.
func (p *Pipeline) TextRows() int { return p.rows }

func (p *Pipeline) Width() int { return p.grid.Width() }

// Buffer exposes the grid, mostly for inspection.
func (p *Pipeline) Buffer() *screen.Buffer { return p.grid }

// Refresh redraws every text row from document lines starting at top. Rows
// past the end of the document show a tilde.
func (p *Pipeline) Refresh(doc Document, top int) {
	p.RefreshRows(doc, top, 0, p.rows)
}

// RefreshRows redraws text rows [from, to).
func (p *Pipeline) RefreshRows(doc Document, top, from, to int) {
	from, to = max(from, 0), min(to, p.rows)
	if from >= to {
		return
	}
	lines := doc.LinesInRange(top+from, top+to)
	for i := from; i < to; i++ {
		if j := i - from; j < len(lines) {
			p.grid.ReplaceRow(i, cells.FitString(lines[j], p.grid.Width(), p.tabWidth))
			continue
		}
		p.grid.ReplaceRow(i, cells.FitString("~", p.grid.Width(), p.tabWidth))
	}
}

// InsertChar patches a single typed character into a text row without going
// back to the document.
func (p *Pipeline) InsertChar(row, col int, r rune) {
	if row < 0 || row >= p.rows {
		return
	}
	p.grid.InsertCharInRow(row, col, r, p.tabWidth)
}

// SetStatus lays out the status row: the mode badge on the left, then left,
// then right aligned to the edge.
func (p *Pipeline) SetStatus(mode, left, right string) {
	if p.grid.Height() <= p.rows {
		return
	}
	badge := fmt.Sprintf(" %s ", mode)
	left = " " + left
	right += " "
	w := p.grid.Width()
	all := []rune(badge + left + right)
	gap := max(w-cells.Column(all, len(all), p.tabWidth), 1)
	text := badge + left + strings.Repeat(" ", gap) + right
	p.badge = min(len([]rune(badge)), w)
	p.grid.ReplaceRow(p.rows, cells.FitString(text, w, p.tabWidth))
}

// SetMessage fills the bottom row. Errors are drawn in the error style.
func (p *Pipeline) SetMessage(text string, isErr bool) {
	row := p.rows + 1
	if p.grid.Height() <= row {
		return
	}
	if isErr != p.msgErr {
		p.msgErr = isErr
		p.grid.MarkDirty(row)
	}
	p.grid.ReplaceRow(row, cells.FitString(text, p.grid.Width(), p.tabWidth))
}

// Invalidate forces the next Flush to rewrite every row.
func (p *Pipeline) Invalidate() { p.grid.Invalidate() }

// Flush writes the dirty rows, parks the hardware cursor at (x, y) and flushes
// the backend once.
func (p *Pipeline) Flush(x, y int) error {
	rows := p.grid.DrainDirty()
	p.out.HideCursor()
	for _, r := range rows {
		p.out.MoveCursor(0, r)
		p.out.Write(p.styled(r))
	}
	p.out.MoveCursor(max(min(x, p.grid.Width()-1), 0), max(y, 0))
	p.out.ShowCursor()
	return p.out.Flush()
}

func (p *Pipeline) styled(r int) string {
	switch r {
	case p.rows:
		row := p.grid.Cells(r)
		return p.styles.Mode.Render(cells.String(row[:p.badge])) +
			p.styles.Status.Render(cells.String(row[p.badge:]))
	case p.rows + 1:
		if p.msgErr {
			text := p.grid.Row(r)
			msg := strings.TrimRight(text, " ")
			return p.styles.Error.Render(msg) + text[len(msg):]
		}
		return p.styles.Message.Render(p.grid.Row(r))
	}
	return p.grid.Row(r)
}
