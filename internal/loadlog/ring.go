package loadlog

import "sync"

// DefaultRingSize is the default ring capacity.
const DefaultRingSize = 64

// Ring is a fixed-size circular buffer of Entries.
// Goroutine-safe for concurrent Push and read operations.
type Ring struct {
	mu    sync.Mutex
	buf   []Entry
	size  int
	head  int // next write position
	count int // number of valid entries (0..size)
}

// NewRing creates a ring with the given capacity.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{
		buf:  make([]Entry, size),
		size: size,
	}
}

// Push adds an entry, overwriting the oldest if full. Goroutine-safe.
// Copies the Sources slice to prevent aliasing bugs.
func (r *Ring) Push(e Entry) {
	if e.Sources != nil {
		e.Sources = append([]string(nil), e.Sources...)
	}
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
	r.mu.Unlock()
}

// Snapshot returns a copy of all entries, oldest first.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil
	}

	result := make([]Entry, r.count)
	if r.count < r.size {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.head:])
		copy(result[n:], r.buf[:r.head])
	}
	return result
}

// Last returns the n most recent entries, oldest first.
// If n > count, returns all entries. If n <= 0, returns nil.
func (r *Ring) Last(n int) []Entry {
	if n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	result := make([]Entry, n)
	start := (r.head - n + r.size) % r.size
	if start+n <= r.size {
		copy(result, r.buf[start:start+n])
	} else {
		first := r.size - start
		copy(result, r.buf[start:])
		copy(result[first:], r.buf[:n-first])
	}
	return result
}

// Latest returns the most recent entry.
func (r *Ring) Latest() (Entry, bool) {
	last := r.Last(1)
	if len(last) == 0 {
		return Entry{}, false
	}
	return last[0], true
}

// Len returns the number of entries currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return r.size
}

// Stats counts held entries by outcome.
func (r *Ring) Stats() map[Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Outcome]int)
	start := 0
	if r.count >= r.size {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		idx := (start + i) % r.size
		counts[r.buf[idx].Outcome]++
	}
	return counts
}
