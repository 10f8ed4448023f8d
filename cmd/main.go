package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"revim/internal/config"
	"revim/internal/editor"
	"revim/internal/terminal"
)

type options struct {
	configPath string
	initConfig bool
	file       string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("revim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to config file (default "+config.Path()+")")
	fs.BoolVar(&opts.initConfig, "init-config", false, "write the default config file and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: revim [flags] [file]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.file = fs.Arg(0)
	default:
		fs.Usage()
		return options{}, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}
	return opts, nil
}

// logPath picks where the debug log goes: the configured file, .logs/ under
// the working directory for local builds, or the XDG state directory.
func logPath(cfg *config.Config) string {
	if cfg.LogFile != "" {
		return cfg.LogFile
	}
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		cwd, _ := os.Getwd()
		if strings.HasPrefix(exeDir, cwd) || strings.Contains(exeDir, "go-build") {
			dir := filepath.Join(cwd, ".logs")
			_ = os.MkdirAll(dir, 0o755)
			return filepath.Join(dir, "debug.log")
		}
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, _ := os.UserHomeDir()
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "revim")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, "debug.log")
}

// setupLogging sends both the standard logger and zerolog to path. Nothing
// may be logged to the terminal the editor draws on. The standard logger
// carries the lifecycle lines, zerolog everything the packages report.
func setupLogging(path, level string) (io.Closer, error) {
	f, err := tea.LogToFile(path, "revim")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	config.FixOwnership(path)
	return f, nil
}

func run(args []string) error {
	opts, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.initConfig {
		p := opts.configPath
		if p == "" {
			p = config.Path()
		}
		if err := config.Save(cfg, p); err != nil {
			return err
		}
		fmt.Println("wrote", p)
		return nil
	}

	path := logPath(cfg)
	f, err := setupLogging(path, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	stdlog.Printf("=== revim starting (log: %s) ===", path)

	ed, err := editor.New(opts.file, terminal.New(os.Stdin, os.Stdout), cfg)
	if err != nil {
		stdlog.Printf("[main] open %q: %v", opts.file, err)
		return err
	}
	if err := ed.Run(); err != nil {
		stdlog.Printf("[main] editor failed: %v", err)
		return err
	}
	stdlog.Printf("=== revim exiting ===")
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
