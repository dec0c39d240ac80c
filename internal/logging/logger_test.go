package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInitWriterLevel(t *testing.T) {
	defer func() { Logger = nil }()

	var buf bytes.Buffer
	InitWriter(&buf, log.InfoLevel)

	Debug("hidden")
	Info("dataset loaded", "records", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "dataset loaded") || !strings.Contains(out, "records=3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestWithPrefixBeforeInit(t *testing.T) {
	Logger = nil
	l := WithPrefix("coord")
	if l == nil {
		t.Fatal("WithPrefix returned nil before Init")
	}
	l.Info("dropped")
}

func TestInitCreatesLogFile(t *testing.T) {
	defer func() { Logger = nil }()

	dir := t.TempDir()
	if err := Init(dir, log.DebugLevel); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Close()

	matches, _ := filepath.Glob(filepath.Join(dir, "logs", "cybertrend-*.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one log file, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "cybertrend started") {
		t.Errorf("log file missing start line: %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != log.DebugLevel {
		t.Error("debug")
	}
	if ParseLevel("nonsense") != log.InfoLevel {
		t.Error("fallback should be info")
	}
}
