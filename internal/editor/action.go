package editor

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"revim/internal/command"
	"revim/internal/textbuf"
	"revim/internal/viewport"
)

// ErrUnsavedChanges is shown when :q would discard edits.
var ErrUnsavedChanges = errors.New("no write since last change (add ! to override)")

// ActionKind enumerates everything a key can do.
type ActionKind int

const (
	ActNone ActionKind = iota
	ActMoveHorizontal
	ActMoveVertical
	ActLineStart
	ActLineEnd
	ActScrollLine
	ActScrollPage
	ActSetMode
	ActAppend
	ActAppendEnd
	ActOpenBelow
	ActDeleteChar
	ActInsertRune
	ActInsertTab
	ActInsertNewline
	ActDeleteBackward
	ActDeleteForward
	ActCommandAppend
	ActCommandBackspace
	ActCommandExecute
	ActRedraw
	ActQuit
)

// Action is a table entry: a kind plus the one argument it needs, if any.
type Action struct {
	Kind  ActionKind
	Rune  rune
	Mode  Mode
	Delta int
}

func (e *Editor) apply(a Action) {
	v := e.view
	switch a.Kind {
	case ActMoveHorizontal:
		v.MoveHorizontal(e.doc, a.Delta)
	case ActMoveVertical:
		if v.MoveVertical(e.doc, a.Delta) {
			e.full = true
		}
	case ActLineStart:
		e.moveTo(0, v.DocY)
	case ActLineEnd:
		e.moveTo(e.doc.LineLen(v.DocY), v.DocY)
		// stay at end of line on later vertical moves
		v.StickyX = math.MaxInt
	case ActScrollLine:
		if v.Scroll(e.doc, a.Delta, viewport.CursorMovesWithContent) {
			e.full = true
		}
	case ActScrollPage:
		if v.Scroll(e.doc, a.Delta*max(v.Height, 1), viewport.CursorStays) {
			e.full = true
		}
	case ActSetMode:
		e.setMode(a.Mode)
	case ActAppend:
		e.setMode(ModeInsert)
		v.MoveHorizontal(e.doc, 1)
	case ActAppendEnd:
		e.setMode(ModeInsert)
		e.moveTo(e.doc.LineLen(v.DocY), v.DocY)
	case ActOpenBelow:
		y := v.DocY
		e.doc.InsertLineBreak(e.doc.LineLen(y), y)
		e.setMode(ModeInsert)
		e.touchFrom(v.ScreenY)
		e.moveTo(0, y+1)
	case ActDeleteChar:
		if e.doc.LineLen(v.DocY) == 0 {
			return
		}
		e.doc.RemoveRange(textbuf.Pos{X: v.DocX, Y: v.DocY}, textbuf.Pos{X: v.DocX + 1, Y: v.DocY})
		e.touchRow(v.ScreenY)
		e.moveTo(v.DocX, v.DocY)
	case ActInsertRune:
		e.insertRune(a.Rune)
	case ActInsertTab:
		for i := 0; i < e.tabWidth; i++ {
			e.insertRune(' ')
		}
	case ActInsertNewline:
		e.doc.InsertLineBreak(v.DocX, v.DocY)
		e.touchFrom(v.ScreenY)
		e.moveTo(0, v.DocY+1)
	case ActDeleteBackward:
		e.deleteBackward()
	case ActDeleteForward:
		e.deleteForward()
	case ActCommandAppend:
		e.cmdline = append(e.cmdline, a.Rune)
	case ActCommandBackspace:
		if len(e.cmdline) == 0 {
			e.setMode(ModeNormal)
			return
		}
		e.cmdline = e.cmdline[:len(e.cmdline)-1]
	case ActCommandExecute:
		line := string(e.cmdline)
		e.setMode(ModeNormal)
		e.execute(line)
	case ActRedraw:
		e.screen.Invalidate()
		e.full = true
	case ActQuit:
		e.quit = true
	}
}

func (e *Editor) setMode(m Mode) {
	if m == e.mode {
		return
	}
	log.Debug().Stringer("from", e.mode).Stringer("to", m).Msg("mode change")
	e.mode = m
	e.view.SetInsert(e.doc, m == ModeInsert)
	e.cmdline = e.cmdline[:0]
	if m != ModeNormal {
		e.message, e.msgErr = "", false
	}
}

// moveTo places the cursor after an edit, scrolling if needed.
func (e *Editor) moveTo(x, y int) {
	if e.view.JumpTo(e.doc, x, y) {
		e.full = true
	}
}

// insertRune patches the typed rune straight into the screen row instead of
// redrawing the row from the document.
func (e *Editor) insertRune(r rune) {
	v := e.view
	e.doc.InsertChar(v.DocX, v.DocY, r)
	e.screen.InsertChar(v.ScreenY, v.ScreenX, r)
	e.moveTo(v.DocX+1, v.DocY)
}

// deleteBackward removes the rune left of the cursor. At the start of a line
// it joins the line onto the previous one and the cursor lands where that
// line used to end.
func (e *Editor) deleteBackward() {
	v := e.view
	x, y := v.DocX, v.DocY
	switch {
	case x > 0:
		e.doc.RemoveRange(textbuf.Pos{X: x - 1, Y: y}, textbuf.Pos{X: x, Y: y})
		e.touchRow(v.ScreenY)
		e.moveTo(x-1, y)
	case y > 0:
		end := e.doc.LineLen(y - 1)
		e.doc.RemoveRange(textbuf.Pos{X: end, Y: y - 1}, textbuf.Pos{X: 0, Y: y})
		e.moveTo(end, y-1)
		e.touchFrom(v.ScreenY)
	}
}

func (e *Editor) deleteForward() {
	v := e.view
	x, y := v.DocX, v.DocY
	switch {
	case x < e.doc.LineLen(y):
		e.doc.RemoveRange(textbuf.Pos{X: x, Y: y}, textbuf.Pos{X: x + 1, Y: y})
		e.touchRow(v.ScreenY)
	case y+1 < e.doc.LineCount():
		e.doc.RemoveRange(textbuf.Pos{X: x, Y: y}, textbuf.Pos{X: 0, Y: y + 1})
		e.touchFrom(v.ScreenY)
	}
	e.moveTo(x, y)
}

// execute runs a command line. Failures end up on the message row; they never
// stop the editor.
func (e *Editor) execute(line string) {
	cmd, err := command.Parse(line)
	if errors.Is(err, command.ErrEmpty) {
		return
	}
	if err != nil {
		log.Warn().Str("command", line).Msg("unknown command")
		e.fail(err)
		return
	}
	log.Debug().Str("command", line).Msg("execute")

	switch {
	case cmd.Help:
		e.info(e.keys.Help(e.screen.Width()))
	case cmd.Line > 0:
		e.moveTo(0, cmd.Line-1)
	}
	for _, op := range cmd.Ops {
		log.Debug().Stringer("op", op).Bool("force", cmd.Force).Msg("command op")
		switch op {
		case command.Write:
			n, err := e.doc.Save(cmd.Arg)
			if err != nil {
				log.Error().Err(err).Msg("save failed")
				e.fail(err)
				return
			}
			e.info(fmt.Sprintf("%q %dL, %dB written", e.doc.Path(), e.doc.LineCount(), n))
		case command.Quit:
			if e.doc.Dirty() && !cmd.Force {
				e.fail(ErrUnsavedChanges)
				return
			}
			e.quit = true
		}
	}
}

func (e *Editor) info(msg string) { e.message, e.msgErr = msg, false }

func (e *Editor) fail(err error) { e.message, e.msgErr = err.Error(), true }
