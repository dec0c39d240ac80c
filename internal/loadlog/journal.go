package loadlog

// Goroutine safety:
// The drain goroutine is the sole reader of j.ch and the sole writer to j.w.

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// journalChanSize is the capacity of the async write channel.
const journalChanSize = 256

// Journal appends entries as JSONL via an async background writer.
// Goroutine-safe. Record never blocks the load that produced the entry.
type Journal struct {
	session   string        // random hex, set once at creation
	ch        chan []byte   // buffered channel for async writes
	w         io.Writer     // destination (journal file)
	dropped   atomic.Uint64 // entries dropped due to full channel, encode failure, or write error
	closed    atomic.Bool   // true after Close(); prevents send-on-closed-channel panic
	done      chan struct{} // closed when drain goroutine exits
	closeOnce sync.Once
}

// NewJournal creates a Journal writing JSONL to w asynchronously.
// Starts a background drain goroutine. Call Close() to flush and stop.
func NewJournal(w io.Writer) *Journal {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	j := &Journal{
		session: fmt.Sprintf("%x", sid[:]),
		ch:      make(chan []byte, journalChanSize),
		w:       w,
		done:    make(chan struct{}),
	}
	go j.drain()
	return j
}

func (j *Journal) drain() {
	defer close(j.done)
	for data := range j.ch {
		if _, err := j.w.Write(data); err != nil {
			j.dropped.Add(1)
		}
	}
}

// Record queues e for writing. Sets Time (if zero) and Session. Non-blocking:
// if the channel is full or the journal is closed, the entry is dropped and
// counted.
func (j *Journal) Record(e Entry) {
	defer func() {
		if recover() != nil {
			j.dropped.Add(1)
		}
	}()

	if j.closed.Load() {
		j.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.Session = j.session

	data, err := json.Marshal(e)
	if err != nil {
		j.dropped.Add(1)
		return
	}

	select {
	case j.ch <- append(data, '\n'):
	default:
		j.dropped.Add(1)
	}
}

// Dropped returns the number of entries dropped since creation.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Close flushes pending entries and stops the drain goroutine.
func (j *Journal) Close() {
	j.closeOnce.Do(func() {
		j.closed.Store(true)
		close(j.ch)
		<-j.done
	})
}
