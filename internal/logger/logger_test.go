package logger

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   LevelTrace,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFlags(0)
	defer func() {
		SetOutput(os.Stderr)
		SetFlags(log.LstdFlags)
		SetLevel(LevelInfo)
	}()

	SetLevel(LevelWarn)
	Infof("hidden %s", "line")
	Warnf("visible %s", "line")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line emitted below threshold: %q", out)
	}
	if !strings.Contains(out, "[WARN] visible line") {
		t.Fatalf("warn line missing: %q", out)
	}

	if Enabled(LevelInfo) {
		t.Fatal("info should be disabled at warn threshold")
	}
	if !Enabled(LevelError) {
		t.Fatal("error should be enabled at warn threshold")
	}
}
