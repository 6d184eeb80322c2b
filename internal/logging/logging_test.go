package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"", log.InfoLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	for _, ok := range []string{"", "text", "JSON", "logfmt"} {
		if _, err := ParseFormatter(ok); err != nil {
			t.Errorf("ParseFormatter(%q): %v", ok, err)
		}
	}
	if _, err := ParseFormatter("xml"); err == nil {
		t.Error("ParseFormatter(xml): expected error")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFallbackWriterAndSession(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "debug", Format: "logfmt", Fallback: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Close()

	l.Debug("applied", "action", "add")
	out := buf.String()
	if !strings.Contains(out, "action=add") {
		t.Errorf("missing field in %q", out)
	}
	if l.Session == "" || !strings.Contains(out, "session="+l.Session) {
		t.Errorf("missing session %q in %q", l.Session, out)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "warn", Fallback: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")
	l, err := New(Options{File: path, Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("started")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"started"`) {
		t.Errorf("log file: %q", b)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
