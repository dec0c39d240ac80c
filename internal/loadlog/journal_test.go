package loadlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJournalWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	j.Record(Entry{Outcome: OutcomeLoaded, LoadID: "abc", Records: 12, Dur: 1500 * time.Millisecond})
	j.Record(Entry{Outcome: OutcomeFailed, Err: "HTTP error: 503"})
	j.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["outcome"] != "loaded" || first["load_id"] != "abc" {
		t.Errorf("first line = %v", first)
	}
	if first["dur_ms"] != float64(1500) {
		t.Errorf("dur_ms = %v, want 1500", first["dur_ms"])
	}
	if s, _ := first["session"].(string); len(s) != 16 {
		t.Errorf("session should be 16 hex chars, got %q", s)
	}
	if _, ok := first["t"]; !ok {
		t.Error("time should be set")
	}

	var second Entry
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if second.Err != "HTTP error: 503" {
		t.Errorf("err = %q", second.Err)
	}
}

func TestJournalDropsAfterClose(t *testing.T) {
	j := NewJournal(&bytes.Buffer{})
	j.Close()
	j.Close()

	j.Record(Entry{Outcome: OutcomeLoaded})
	if j.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", j.Dropped())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJournalCountsWriteErrors(t *testing.T) {
	j := NewJournal(failingWriter{})
	j.Record(Entry{Outcome: OutcomeLoaded})
	j.Close()
	if j.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", j.Dropped())
	}
}

func TestHistoryFansOut(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)
	h := NewHistory(4, j)

	h.Record(Entry{Outcome: OutcomeLoaded, LoadID: "a"})
	h.Record(Entry{Outcome: OutcomeFailed})
	j.Close()

	if got := len(h.Entries()); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
	if e, _ := h.Latest(); e.Outcome != OutcomeFailed {
		t.Errorf("latest = %+v", e)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("journal lines = %d, want 2", got)
	}
}

func TestNilHistory(t *testing.T) {
	var h *History
	h.Record(Entry{})
	if h.Entries() != nil {
		t.Error("nil history should hold nothing")
	}
	if _, ok := h.Latest(); ok {
		t.Error("nil history has no latest entry")
	}
	if len(h.Stats()) != 0 {
		t.Error("nil history has no stats")
	}
}
