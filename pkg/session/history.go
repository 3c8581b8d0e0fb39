package session

import "github.com/aretw0/abacus/pkg/domain"

// DefaultHistorySize is the number of evaluations a session remembers.
const DefaultHistorySize = 10

// History is a bounded FIFO of evaluations. The oldest entry is evicted first.
type History struct {
	entries []domain.HistoryEntry // oldest first
	limit   int
}

// NewHistory creates an empty history holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{
		entries: make([]domain.HistoryEntry, 0, limit),
		limit:   limit,
	}
}

// Push appends e, evicting the oldest entry when the history is full.
func (h *History) Push(e domain.HistoryEntry) {
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, e)
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Latest returns the most recent entry.
func (h *History) Latest() (domain.HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return domain.HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// At returns the entry at index i of the most-recent-first order.
func (h *History) At(i int) (domain.HistoryEntry, bool) {
	if i < 0 || i >= len(h.entries) {
		return domain.HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1-i], true
}

// Recent returns a copy of the entries, most recent first.
func (h *History) Recent() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(h.entries))
	for i := range h.entries {
		out[i] = h.entries[len(h.entries)-1-i]
	}
	return out
}

// Oldest returns a copy of the entries, oldest first.
func (h *History) Oldest() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), h.entries...)
}
