// Package terminal drives a raw-mode terminal: alternate screen, buffered
// output, a timed input poll, and key and resize events.
package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by EnterRawMode when input is not a tty.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Terminal is a raw-mode terminal reading from in and drawing on out. Output
// is buffered until Flush.
type Terminal struct {
	in  *os.File
	out *os.File
	buf bytes.Buffer

	state   *term.State
	winch   chan os.Signal
	dec     *Decoder
	pending []Event
	readBuf [256]byte
}

// New returns a Terminal over in and out. Nothing changes on the tty until
// EnterRawMode.
func New(in, out *os.File) *Terminal {
	return &Terminal{in: in, out: out, winch: make(chan os.Signal, 1), dec: NewDecoder()}
}

// EnterRawMode switches the terminal to raw mode and the alternate screen,
// and starts watching for resizes.
func (t *Terminal) EnterRawMode() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	return t.start(state)
}

// start finishes entering raw mode once the tty is raw. If the screen setup
// cannot be written the tty is restored before returning.
func (t *Terminal) start(state *term.State) error {
	t.state = state
	signal.Notify(t.winch, syscall.SIGWINCH)

	t.buf.WriteString(ansi.SetAltScreenSaveCursorMode)
	t.buf.WriteString(ansi.EraseEntireScreen)
	t.buf.WriteString(ansi.CursorHomePosition)
	if err := t.Flush(); err != nil {
		return errors.Join(err, t.ExitRawMode())
	}
	return nil
}

// ExitRawMode undoes EnterRawMode. It is safe to call more than once.
func (t *Terminal) ExitRawMode() error {
	signal.Stop(t.winch)
	t.buf.WriteString(ansi.ResetStyle)
	t.buf.WriteString(ansi.ShowCursor)
	t.buf.WriteString(ansi.ResetAltScreenSaveCursorMode)
	err := t.Flush()
	if t.state != nil {
		if rerr := term.Restore(int(t.in.Fd()), t.state); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore terminal: %w", rerr))
		}
		t.state = nil
	}
	return err
}

// Size returns the terminal's width and height in cells.
func (t *Terminal) Size() (int, int, error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("terminal size: %w", err)
	}
	return w, h, nil
}

// Poll waits up to timeout for an event to be ready. A resize signal counts
// as an event. When the wait runs out while part of an escape sequence is
// held, the held input is decoded as it stands, so a lone ESC becomes the
// Escape key.
func (t *Terminal) Poll(timeout time.Duration) (bool, error) {
	if len(t.pending) > 0 {
		return true, nil
	}
	if ok, err := t.checkResize(); ok || err != nil {
		return ok, err
	}

	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if errors.Is(err, unix.EINTR) {
		// SIGWINCH interrupts the poll; it is picked up next time round
		return t.checkResize()
	}
	if err != nil {
		return false, fmt.Errorf("poll input: %w", err)
	}
	if n > 0 && fds[0].Revents != 0 {
		return true, nil
	}
	if t.dec.Pending() {
		t.queueKeys(t.dec.Flush())
	}
	return len(t.pending) > 0, nil
}

func (t *Terminal) queueKeys(chords []Chord) {
	for _, c := range chords {
		t.pending = append(t.pending, KeyEvent{c})
	}
}

func (t *Terminal) checkResize() (bool, error) {
	select {
	case <-t.winch:
	default:
		return false, nil
	}
	w, h, err := t.Size()
	if err != nil {
		return false, err
	}
	log.Debug().Int("width", w).Int("height", h).Msg("terminal resized")
	t.pending = append(t.pending, ResizeEvent{Width: w, Height: h})
	return true, nil
}

// ReadEvent returns the next event. Call it after Poll reports one is ready,
// otherwise it blocks. It returns a nil Event when the input held nothing it
// understood, or only the start of a sequence.
func (t *Terminal) ReadEvent() (Event, error) {
	if len(t.pending) == 0 {
		n, err := t.in.Read(t.readBuf[:])
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("read input: %w", io.EOF)
		}
		t.queueKeys(t.dec.Feed(t.readBuf[:n]))
		if len(t.pending) == 0 {
			return nil, nil
		}
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, nil
}

// MoveCursor positions the cursor at 0-based column x, row y.
func (t *Terminal) MoveCursor(x, y int) {
	t.buf.WriteString(ansi.CursorPosition(x+1, y+1))
}

func (t *Terminal) Write(s string) { t.buf.WriteString(s) }

func (t *Terminal) ShowCursor() { t.buf.WriteString(ansi.ShowCursor) }

func (t *Terminal) HideCursor() { t.buf.WriteString(ansi.HideCursor) }

// Flush sends everything buffered since the last Flush in one write.
func (t *Terminal) Flush() error {
	if t.buf.Len() == 0 {
		return nil
	}
	_, err := t.out.Write(t.buf.Bytes())
	t.buf.Reset()
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
