// Package viewport maps document coordinates onto the visible text area.
//
// A Model keeps three things consistent: the cursor's document position, its
// position inside the viewport, and the first document line on screen (Top).
// After every operation DocY == Top + ScreenY.
package viewport

import (
	"fmt"

	"revim/internal/cells"
)

// Document is the read side of the text store the model measures lines against.
type Document interface {
	Line(y int) string
	LineCount() int
}

// Cursor positions. ScreenX and StickyX are display columns, DocX is a rune index.
type Cursor struct {
	ScreenX, ScreenY int
	DocX, DocY       int
	StickyX          int
}

// Anchor picks how the cursor follows a scroll.
type Anchor int

const (
	// CursorStays keeps the screen row; the cursor lands on a new document line.
	CursorStays Anchor = iota
	// CursorMovesWithContent keeps the document line; the screen row shifts.
	CursorMovesWithContent
)

// Model is the cursor together with the window of document lines on screen.
type Model struct {
	Cursor
	Top      int
	Height   int
	Width    int
	TabWidth int

	insert bool
}

// New returns a model at the top of the document. A non-positive tabWidth
// falls back to the default.
func New(width, height, tabWidth int) *Model {
	if tabWidth <= 0 {
		tabWidth = cells.DefaultTabWidth
	}
	return &Model{Width: width, Height: height, TabWidth: tabWidth}
}

// EndOfLine returns the last rune index the cursor may rest on. Insert mode
// may sit one past the last character.
func EndOfLine(line []rune, insert bool) int {
	n := len(line)
	if insert || n == 0 {
		return n
	}
	return n - 1
}

func (m *Model) rows() int { return max(m.Height, 1) }

func (m *Model) maxTop(doc Document) int {
	return max(0, doc.LineCount()-m.rows())
}

func lineAt(doc Document, y int) []rune {
	if y < 0 || y >= doc.LineCount() {
		return nil
	}
	return []rune(doc.Line(y))
}

// MoveVertical moves the cursor one line by delta, scrolling when it would
// leave the viewport. It reports whether Top changed. Moving above the first
// line or below the last is a no-op.
func (m *Model) MoveVertical(doc Document, delta int) bool {
	target := m.DocY + delta
	if delta == 0 || target < 0 || target >= doc.LineCount() {
		return false
	}
	if sy := m.ScreenY + delta; sy >= 0 && sy < m.rows() {
		m.ScreenY = sy
		m.DocY = target
		m.snapToSticky(doc)
		return false
	}
	return m.Scroll(doc, delta, CursorStays)
}

// MoveHorizontal moves the cursor within its line and re-anchors the sticky column.
func (m *Model) MoveHorizontal(doc Document, delta int) {
	line := lineAt(doc, m.DocY)
	m.DocX = clamp(m.DocX+delta, 0, EndOfLine(line, m.insert))
	m.ScreenX = cells.Column(line, m.DocX, m.TabWidth)
	m.StickyX = m.ScreenX
}

// Scroll shifts Top by delta lines within [0, LineCount-Height] and moves the
// cursor according to anchor. It reports whether Top changed.
func (m *Model) Scroll(doc Document, delta int, anchor Anchor) bool {
	top := clamp(m.Top+delta, 0, m.maxTop(doc))
	if top == m.Top {
		return false
	}
	m.Top = top
	switch anchor {
	case CursorStays:
		m.DocY = m.Top + m.ScreenY
	case CursorMovesWithContent:
		m.ScreenY = clamp(m.DocY-m.Top, 0, m.rows()-1)
		m.DocY = m.Top + m.ScreenY
	}
	if last := doc.LineCount() - 1; m.DocY > last {
		m.DocY = max(last, 0)
	}
	m.ScreenY = m.DocY - m.Top
	m.snapToSticky(doc)
	return true
}

// SetInsert switches the end-of-line allowance. Leaving insert mode pulls a
// cursor resting past the last character back onto it.
func (m *Model) SetInsert(doc Document, insert bool) {
	m.insert = insert
	line := lineAt(doc, m.DocY)
	if eol := EndOfLine(line, insert); m.DocX > eol {
		m.DocX = eol
		m.ScreenX = cells.Column(line, m.DocX, m.TabWidth)
		m.StickyX = m.ScreenX
	}
}

// JumpTo places the cursor at (x, y), clamped into the document, and scrolls
// the minimum amount needed to keep it visible. It reports whether Top changed.
func (m *Model) JumpTo(doc Document, x, y int) bool {
	m.DocY = clamp(y, 0, max(doc.LineCount()-1, 0))
	line := lineAt(doc, m.DocY)
	m.DocX = clamp(x, 0, EndOfLine(line, m.insert))
	m.ScreenX = cells.Column(line, m.DocX, m.TabWidth)
	m.StickyX = m.ScreenX
	return m.follow(doc)
}

// Resize changes the viewport dimensions and keeps the cursor on screen.
func (m *Model) Resize(doc Document, width, height int) {
	m.Width = width
	m.Height = height
	m.follow(doc)
}

func (m *Model) follow(doc Document) bool {
	old := m.Top
	m.Top = min(m.Top, m.maxTop(doc))
	if m.DocY < m.Top {
		m.Top = m.DocY
	}
	if m.DocY >= m.Top+m.rows() {
		m.Top = m.DocY - m.rows() + 1
	}
	m.ScreenY = m.DocY - m.Top
	return m.Top != old
}

// snapToSticky places DocX on the rune covering the sticky column, or on the
// last allowed rune when the line is shorter.
func (m *Model) snapToSticky(doc Document) {
	line := lineAt(doc, m.DocY)
	eol := EndOfLine(line, m.insert)
	col := min(m.StickyX, cells.Column(line, eol, m.TabWidth))
	m.DocX = min(cells.Index(line, col, m.TabWidth), eol)
	m.ScreenX = cells.Column(line, m.DocX, m.TabWidth)
}

// Validate reports the first broken coordinate relation, if any.
func (m *Model) Validate(doc Document) error {
	if m.Top < 0 {
		return fmt.Errorf("viewport top %d is negative", m.Top)
	}
	if m.DocY != m.Top+m.ScreenY {
		return fmt.Errorf("doc_y %d != top %d + screen_y %d", m.DocY, m.Top, m.ScreenY)
	}
	if m.ScreenY < 0 || m.ScreenY >= m.rows() {
		return fmt.Errorf("screen_y %d outside [0, %d)", m.ScreenY, m.rows())
	}
	if n := doc.LineCount(); n > 0 && (m.DocY < 0 || m.DocY >= n) {
		return fmt.Errorf("doc_y %d outside [0, %d)", m.DocY, n)
	}
	line := lineAt(doc, m.DocY)
	if eol := EndOfLine(line, m.insert); m.DocX < 0 || m.DocX > eol {
		return fmt.Errorf("doc_x %d outside [0, %d]", m.DocX, eol)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
