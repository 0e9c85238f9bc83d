package dlog

import (
	"os"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	cases := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN(99)"},
	}
	for _, c := range cases {
		if got := c.level.String(); got != c.want {
			t.Errorf("Level(%d).String() = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestNoOpLogger_DiscardsEverything(t *testing.T) {
	l := NewNoOpLogger()
	if l.IsEnabled(LevelError) {
		t.Fatal("no-op logger should never report a level enabled")
	}
	l.Log(Entry{Level: LevelError, Message: "should vanish"}) // must not panic
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	l := NewDefaultLogger(LevelWarn)
	if l.IsEnabled(LevelInfo) {
		t.Fatal("INFO should not be enabled at WARN threshold")
	}
	if !l.IsEnabled(LevelError) {
		t.Fatal("ERROR should be enabled at WARN threshold")
	}
	l.SetLevel(LevelDebug)
	if !l.IsEnabled(LevelDebug) {
		t.Fatal("DEBUG should be enabled after SetLevel(LevelDebug)")
	}
}

func TestDefaultLogger_WritesStructuredLine(t *testing.T) {
	tmp, err := os.CreateTemp("", "dlog-test-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp.Name())

	l := NewDefaultLogger(LevelInfo)
	l.Out = tmp
	l.Log(Entry{
		Level:    LevelError,
		Category: "threadpool",
		Tag:      0x1234,
		Message:  "worker panicked",
	})
	tmp.Close()

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		t.Fatal(err)
	}
	out := string(content)
	for _, want := range []string{"ERROR", "threadpool", "tag=0x00001234", "worker panicked"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestDefaultLogger_BelowThresholdIsSkipped(t *testing.T) {
	tmp, err := os.CreateTemp("", "dlog-test-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp.Name())

	l := NewDefaultLogger(LevelError)
	l.Out = tmp
	l.Log(Entry{Level: LevelDebug, Message: "should be filtered"})
	tmp.Close()

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(content) != 0 {
		t.Fatalf("expected no output below threshold, got %q", content)
	}
}

func TestGlobal_DefaultsToNoOpThenHonorsSetGlobal(t *testing.T) {
	defer SetGlobal(nil)

	if Global().IsEnabled(LevelDebug) {
		t.Fatal("Global() should default to a no-op logger")
	}

	tmp, err := os.CreateTemp("", "dlog-test-*.log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp.Name())

	custom := NewDefaultLogger(LevelInfo)
	custom.Out = tmp
	SetGlobal(custom)

	Global().Log(Entry{Level: LevelInfo, Message: "via global"})
	tmp.Close()

	content, err := os.ReadFile(tmp.Name())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "via global") {
		t.Fatalf("expected the installed global logger to receive the entry, got %q", content)
	}
}
