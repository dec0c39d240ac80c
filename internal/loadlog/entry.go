// Package loadlog records the outcome of every dataset load.
//
// Entries are kept in a fixed-size Ring for the API and the dashboard, and
// can also be appended as JSONL to a Journal on disk. A failed load leaves
// the previous dataset in place, so this history is the only record of it.
package loadlog

import (
	"encoding/json"
	"time"
)

// Outcome is how a load attempt ended.
type Outcome string

const (
	OutcomeLoaded     Outcome = "loaded"
	OutcomeFailed     Outcome = "failed"
	OutcomeSuperseded Outcome = "superseded"
)

// Entry is one load attempt.
type Entry struct {
	Time    time.Time     `json:"t"`
	Outcome Outcome       `json:"outcome"`
	LoadID  string        `json:"load_id,omitempty"`
	Records int           `json:"records,omitempty"`
	Rows    int           `json:"rows,omitempty"`
	Sources []string      `json:"sources,omitempty"`
	Dur     time.Duration `json:"-"`
	DurMs   float64       `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Err     string        `json:"err,omitempty"`
	Session string        `json:"session,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Entry) MarshalJSON() ([]byte, error) {
	type Alias Entry
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
