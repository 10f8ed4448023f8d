// Package editor ties the text store, cursor model and renderer together and
// runs the input loop.
package editor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"revim/internal/cells"
	"revim/internal/config"
	"revim/internal/render"
	"revim/internal/terminal"
	"revim/internal/textbuf"
	"revim/internal/viewport"
)

// Terminal is everything the editor needs from the terminal.
type Terminal interface {
	render.Backend
	EnterRawMode() error
	ExitRawMode() error
	Size() (int, int, error)
	Poll(timeout time.Duration) (bool, error)
	ReadEvent() (terminal.Event, error)
}

// Editor is the single owner of all editing state.
type Editor struct {
	mode    Mode
	doc     *textbuf.Buffer
	view    *viewport.Model
	cmdline []rune
	message string
	msgErr  bool
	quit    bool

	keys     *Keymap
	term     Terminal
	screen   *render.Pipeline
	poll     time.Duration
	tabWidth int

	// pending redraw work for the next Render
	full       bool
	touched    bool
	touchStart int
	touchEnd   int
}

// New opens path (or an empty buffer when path is empty) for editing on t.
func New(path string, t Terminal, cfg *config.Config) (*Editor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	doc := textbuf.New()
	if path != "" {
		var err error
		if doc, err = textbuf.Open(path); err != nil {
			return nil, err
		}
	}
	e := &Editor{
		doc:      doc,
		view:     viewport.New(0, 0, cfg.TabWidth),
		keys:     DefaultKeymap(),
		term:     t,
		poll:     time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		tabWidth: cfg.TabWidth,
		full:     true,
	}
	e.screen = render.New(t, 0, 0, cfg.TabWidth, render.ThemeStyles(cfg.Theme))
	return e, nil
}

func (e *Editor) Mode() Mode { return e.mode }

func (e *Editor) Cursor() viewport.Cursor { return e.view.Cursor }

// Quit reports whether a quit action has fired.
func (e *Editor) Quit() bool { return e.quit }

// Run takes over the terminal and processes events until the user quits. The
// terminal is restored before Run returns, also on error.
func (e *Editor) Run() (err error) {
	if err := e.term.EnterRawMode(); err != nil {
		return err
	}
	defer func() {
		if rerr := e.term.ExitRawMode(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	w, h, err := e.term.Size()
	if err != nil {
		return err
	}
	e.resize(w, h)
	log.Info().Str("path", e.doc.Path()).Int("width", w).Int("height", h).Msg("editor started")

	if err := e.Render(); err != nil {
		return err
	}
	for !e.quit {
		ready, err := e.term.Poll(e.poll)
		if err != nil {
			return err
		}
		if !ready {
			continue
		}
		ev, err := e.term.ReadEvent()
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}
		e.HandleEvent(ev)
		if e.quit {
			break
		}
		if err := e.Render(); err != nil {
			return err
		}
	}
	log.Info().Msg("editor stopped")
	return nil
}

// HandleEvent applies one input event to the editor state.
func (e *Editor) HandleEvent(ev terminal.Event) {
	switch ev := ev.(type) {
	case terminal.KeyEvent:
		e.Dispatch(ev.Chord)
	case terminal.ResizeEvent:
		e.resize(ev.Width, ev.Height)
	}
}

// Dispatch looks chord up in the current mode's table and applies the result.
// Unbound chords go to the per-mode fallback or are ignored.
func (e *Editor) Dispatch(c terminal.Chord) {
	a, ok := e.keys.Lookup(e.mode, c)
	if !ok {
		if a, ok = Fallback(e.mode, c); !ok {
			return
		}
	}
	e.apply(a)
	if err := e.view.Validate(e.doc); err != nil {
		log.Error().Err(err).Stringer("chord", c).Msg("cursor out of sync")
	}
}

func (e *Editor) resize(w, h int) {
	e.screen.Resize(w, h)
	e.view.Resize(e.doc, w, e.screen.TextRows())
	e.full = true
}

// touchRow schedules screen row r to be redrawn from the document.
func (e *Editor) touchRow(r int) { e.touch(r, r+1) }

// touchFrom schedules every text row from r down.
func (e *Editor) touchFrom(r int) { e.touch(r, e.screen.TextRows()) }

func (e *Editor) touch(from, to int) {
	if !e.touched {
		e.touched, e.touchStart, e.touchEnd = true, from, to
		return
	}
	e.touchStart = min(e.touchStart, from)
	e.touchEnd = max(e.touchEnd, to)
}

// Render brings the screen buffer up to date and flushes it.
func (e *Editor) Render() error {
	switch {
	case e.full:
		e.screen.Refresh(e.doc, e.view.Top)
	case e.touched:
		e.screen.RefreshRows(e.doc, e.view.Top, e.touchStart, e.touchEnd)
	}
	e.full, e.touched = false, false

	e.screen.SetStatus(e.mode.String(), e.fileLabel(),
		fmt.Sprintf("Ln %d, Col %d", e.view.DocY+1, e.view.DocX+1))

	x, y := e.view.ScreenX, e.view.ScreenY
	if e.mode == ModeCommand {
		text := ":" + string(e.cmdline)
		e.screen.SetMessage(text, false)
		rs := []rune(text)
		x, y = cells.Column(rs, len(rs), e.tabWidth), e.screen.TextRows()+1
	} else {
		e.screen.SetMessage(e.message, e.msgErr)
	}

	if err := e.screen.Flush(x, y); err != nil {
		log.Error().Err(err).Msg("flush failed")
		return err
	}
	return nil
}

func (e *Editor) fileLabel() string {
	name := "[No Name]"
	if p := e.doc.Path(); p != "" {
		name = filepath.Base(p)
	}
	if e.doc.Dirty() {
		name += " [+]"
	}
	return name
}
