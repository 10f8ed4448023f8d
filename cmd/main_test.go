package main

import (
	"bytes"
	"errors"
	"flag"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"revim/internal/config"
)

// ---------------------------------------------------------------------------
// parseArgs
// ---------------------------------------------------------------------------

func TestParseArgs(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"-config", "/tmp/c.toml", "notes.txt"}, &stderr)
	if err != nil {
		t.Fatalf("parseArgs error = %v", err)
	}
	if opts.configPath != "/tmp/c.toml" {
		t.Errorf("configPath = %q", opts.configPath)
	}
	if opts.file != "notes.txt" {
		t.Errorf("file = %q, want notes.txt", opts.file)
	}
	if opts.initConfig {
		t.Error("initConfig should be false")
	}
}

func TestParseArgsNoFile(t *testing.T) {
	opts, err := parseArgs(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.file != "" {
		t.Errorf("file = %q, want empty", opts.file)
	}
}

func TestParseArgsTooManyFiles(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseArgs([]string{"a", "b"}, &stderr); err == nil {
		t.Error("expected error for two files")
	}
	if !strings.Contains(stderr.String(), "usage: revim") {
		t.Errorf("usage not printed: %q", stderr.String())
	}
}

func TestParseArgsHelp(t *testing.T) {
	_, err := parseArgs([]string{"-h"}, &bytes.Buffer{})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("err = %v, want flag.ErrHelp", err)
	}
}

// ---------------------------------------------------------------------------
// logPath
// ---------------------------------------------------------------------------

func TestLogPath(t *testing.T) {
	p := logPath(config.Default())
	if !strings.HasSuffix(p, "debug.log") {
		t.Errorf("logPath = %q, should end with debug.log", p)
	}
}

func TestLogPathConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = "/var/tmp/revim.log"
	if p := logPath(cfg); p != "/var/tmp/revim.log" {
		t.Errorf("logPath = %q, want configured file", p)
	}
}

// ---------------------------------------------------------------------------
// setupLogging
// ---------------------------------------------------------------------------

func restoreLoggers(t *testing.T) {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		stdlog.SetOutput(os.Stderr)
		stdlog.SetPrefix("")
	})
}

func TestSetupLogging(t *testing.T) {
	restoreLoggers(t)

	p := filepath.Join(t.TempDir(), "debug.log")
	f, err := setupLogging(p, "warn")
	if err != nil {
		t.Fatalf("setupLogging error = %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	stdlog.Printf("=== lifecycle ===")
	f.Close()

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(string(data), `"message":"shown"`) {
		t.Errorf("log = %q", data)
	}
	if !strings.Contains(string(data), "revim ") || !strings.Contains(string(data), "=== lifecycle ===") {
		t.Errorf("standard logger not routed to the log file: %q", data)
	}
	if log.Logger.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", log.Logger.GetLevel())
	}
}

func TestSetupLoggingBadLevelDefaultsToInfo(t *testing.T) {
	restoreLoggers(t)

	f, err := setupLogging(filepath.Join(t.TempDir(), "d.log"), "chatty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", log.Logger.GetLevel())
	}
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func TestRunInitConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "revim", "config.toml")
	if err := run([]string{"-config", p, "-init-config"}); err != nil {
		t.Fatalf("run error = %v", err)
	}
	cfg, err := config.Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TabWidth != 4 {
		t.Errorf("TabWidth = %d, want 4", cfg.TabWidth)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(p, []byte("tab_width = 99\n"), 0600); err != nil {
		t.Fatal(err)
	}
	err := run([]string{"-config", p})
	if err == nil || !strings.Contains(err.Error(), "tab_width=99") {
		t.Errorf("run error = %v", err)
	}
}
