// Package command parses colon-command lines such as ":w notes.txt" or ":q!".
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("not an editor command")
)

// Op is one step of a command. Ops run in the order they were typed.
type Op int

const (
	Write Op = iota + 1
	Quit
)

func (o Op) String() string {
	switch o {
	case Write:
		return "write"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed command line.
type Command struct {
	Ops   []Op
	Force bool   // trailing '!'
	Arg   string // file name for write
	Line  int    // 1-based target of ":<n>", 0 otherwise
	Help  bool
}

// Parse reads a command line without its leading ':'.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, ErrEmpty
	}
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	if n, err := strconv.Atoi(name); err == nil && arg == "" {
		if n < 0 {
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, line)
		}
		return Command{Line: max(n, 1)}, nil
	}
	if name == "help" || name == "h" {
		return Command{Help: true}, nil
	}

	var cmd Command
	if strings.HasSuffix(name, "!") {
		cmd.Force = true
		name = strings.TrimSuffix(name, "!")
	}
	if name == "" {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, line)
	}
	for _, c := range name {
		switch c {
		case 'w':
			cmd.Ops = append(cmd.Ops, Write)
		case 'q':
			cmd.Ops = append(cmd.Ops, Quit)
		case 'x':
			cmd.Ops = append(cmd.Ops, Write, Quit)
		default:
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, line)
		}
	}
	if arg != "" && !cmd.Writes() {
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, line)
	}
	cmd.Arg = arg
	return cmd, nil
}

// Writes reports whether the command saves the buffer.
func (c Command) Writes() bool { return c.has(Write) }

func (c Command) has(op Op) bool {
	for _, o := range c.Ops {
		if o == op {
			return true
		}
	}
	return false
}
