package loadlog

// History fans entries out to a Ring and an optional Journal.
type History struct {
	ring    *Ring
	journal *Journal
}

// NewHistory keeps the last size entries in memory. journal may be nil.
func NewHistory(size int, journal *Journal) *History {
	return &History{ring: NewRing(size), journal: journal}
}

// Record stores e. A nil History ignores it.
func (h *History) Record(e Entry) {
	if h == nil {
		return
	}
	h.ring.Push(e)
	if h.journal != nil {
		h.journal.Record(e)
	}
}

// Entries returns the held entries, oldest first.
func (h *History) Entries() []Entry {
	if h == nil {
		return nil
	}
	return h.ring.Snapshot()
}

// Latest returns the most recent entry.
func (h *History) Latest() (Entry, bool) {
	if h == nil {
		return Entry{}, false
	}
	return h.ring.Latest()
}

// Stats counts held entries by outcome.
func (h *History) Stats() map[Outcome]int {
	if h == nil {
		return map[Outcome]int{}
	}
	return h.ring.Stats()
}
