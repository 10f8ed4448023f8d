package textbuf

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func contents(b *Buffer) []string {
	return b.LinesInRange(0, b.LineCount())
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewIsOneEmptyLine(t *testing.T) {
	b := New()
	if b.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", b.LineCount())
	}
	if b.Line(0) != "" {
		t.Errorf("Line(0) = %q, want empty", b.Line(0))
	}
	if b.Dirty() {
		t.Error("new buffer should not be dirty")
	}
}

func TestFromStringNormalizesLineEndings(t *testing.T) {
	b := FromString("a\r\nb\rc\n")
	want := []string{"a", "b", "c"}
	if got := contents(b); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if b.Text() != "a\nb\nc\n" {
		t.Errorf("Text = %q", b.Text())
	}
}

func TestFromStringWithoutFinalNewline(t *testing.T) {
	b := FromString("x\ny")
	if b.Text() != "x\ny" {
		t.Errorf("Text = %q, want no trailing newline", b.Text())
	}
}

func TestEmptyFileRoundTrips(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(p, nil, 0600); err != nil {
		t.Fatal(err)
	}
	b, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	if b.LineCount() != 1 {
		t.Errorf("LineCount = %d, want 1", b.LineCount())
	}
	n, err := b.Save("")
	if err != nil {
		t.Fatalf("Save error = %v", err)
	}
	if n != 0 {
		t.Errorf("bytes = %d, want 0", n)
	}
	data, _ := os.ReadFile(p)
	if len(data) != 0 {
		t.Errorf("file = %q, want empty", data)
	}
}

func TestSingleNewlineRoundTrips(t *testing.T) {
	if got := FromString("\n").Text(); got != "\n" {
		t.Errorf("Text = %q, want \"\\n\"", got)
	}
}

func TestEmptyBufferGetsNewlineOnceEdited(t *testing.T) {
	b := FromString("")
	b.InsertChar(0, 0, 'a')
	if got := b.Text(); got != "a\n" {
		t.Errorf("Text = %q, want \"a\\n\"", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "later.txt")
	b, err := Open(p)
	if err != nil {
		t.Fatalf("Open error = %v", err)
	}
	if b.Path() != p {
		t.Errorf("Path = %q, want %q", b.Path(), p)
	}
	if b.LineCount() != 1 {
		t.Errorf("LineCount = %d, want 1", b.LineCount())
	}
}

func TestOpenDirectoryFails(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error opening a directory")
	}
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestLineQueriesOutOfRange(t *testing.T) {
	b := FromString("héllo\n")
	if b.LineLen(0) != 5 {
		t.Errorf("LineLen(0) = %d, want 5 runes", b.LineLen(0))
	}
	if b.Line(3) != "" || b.LineLen(-1) != 0 {
		t.Error("out of range lines should be empty")
	}
	if got := b.LinesInRange(-2, 10); len(got) != 1 {
		t.Errorf("LinesInRange clipped = %q", got)
	}
	if got := b.LinesInRange(4, 2); got != nil {
		t.Errorf("LinesInRange(4, 2) = %q, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Edits
// ---------------------------------------------------------------------------

func TestInsertChar(t *testing.T) {
	b := New()
	b.InsertChar(0, 0, 'b')
	b.InsertChar(0, 0, 'a')
	b.InsertChar(99, 0, 'c')
	if b.Line(0) != "abc" {
		t.Errorf("Line(0) = %q, want abc", b.Line(0))
	}
	if !b.Dirty() {
		t.Error("buffer should be dirty after insert")
	}
}

func TestInsertNewlineRuneSplits(t *testing.T) {
	b := FromString("ab")
	b.InsertChar(1, 0, '\n')
	want := []string{"a", "b"}
	if got := contents(b); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestInsertLineBreak(t *testing.T) {
	b := FromString("hello\nworld")
	b.InsertLineBreak(2, 0)
	b.InsertLineBreak(5, 2)
	want := []string{"he", "llo", "world", ""}
	if got := contents(b); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRemoveRangeWithinLine(t *testing.T) {
	b := FromString("abcdef")
	b.RemoveRange(Pos{1, 0}, Pos{3, 0})
	if b.Line(0) != "adef" {
		t.Errorf("Line(0) = %q, want adef", b.Line(0))
	}
}

func TestRemoveRangeJoinsLines(t *testing.T) {
	b := FromString("foo\nbar\nbaz")
	b.RemoveRange(Pos{3, 0}, Pos{0, 1})
	want := []string{"foobar", "baz"}
	if got := contents(b); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRemoveRangeAcrossLinesReversed(t *testing.T) {
	b := FromString("one\ntwo\nthree")
	b.RemoveRange(Pos{2, 2}, Pos{1, 0})
	want := []string{"oree"}
	if got := contents(b); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRemoveEmptyRangeKeepsClean(t *testing.T) {
	b := FromString("x")
	b.RemoveRange(Pos{0, 0}, Pos{0, 0})
	if b.Dirty() {
		t.Error("empty removal should not dirty the buffer")
	}
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestSaveToOwnPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(p, []byte("one\n"), 0600); err != nil {
		t.Fatal(err)
	}
	b, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	b.InsertChar(3, 0, '!')
	n, err := b.Save("")
	if err != nil {
		t.Fatalf("Save error = %v", err)
	}
	if n != 5 {
		t.Errorf("bytes = %d, want 5", n)
	}
	data, _ := os.ReadFile(p)
	if string(data) != "one!\n" {
		t.Errorf("file = %q", data)
	}
	info, _ := os.Stat(p)
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want existing 600 preserved", info.Mode().Perm())
	}
	if b.Dirty() {
		t.Error("buffer should be clean after save")
	}
}

func TestSaveAsRenames(t *testing.T) {
	dir := t.TempDir()
	b := FromString("x\n")
	target := filepath.Join(dir, "b.txt")
	if _, err := b.Save(target); err != nil {
		t.Fatal(err)
	}
	if b.Path() != target {
		t.Errorf("Path = %q, want %q", b.Path(), target)
	}
}

func TestSaveDefaultName(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	b := New()
	b.InsertChar(0, 0, 'z')
	if _, err := b.Save(""); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "z\n" {
		t.Errorf("file = %q, want z\\n", data)
	}
}

func TestSaveUnwritable(t *testing.T) {
	b := New()
	if _, err := b.Save(filepath.Join(t.TempDir(), "missing", "x.txt")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
