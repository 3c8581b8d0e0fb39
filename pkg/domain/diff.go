package domain

// SnapshotDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Buffer         *string    `json:"buffer,omitempty"`
	LastExpression *string    `json:"last_expression,omitempty"`
	Memory         *float64   `json:"memory,omitempty"`
	AngleMode      *AngleMode `json:"angle_mode,omitempty"`

	// History carries the entries appended since the old snapshot.
	// Once the ring is full every evaluation evicts one entry, so the new tail is sent.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history ring.
type HistoryDelta struct {
	Appended []HistoryEntry `json:"appended"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(sessionID string, oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: sessionID}

	if oldSnap == nil || oldSnap.Buffer != newSnap.Buffer {
		diff.Buffer = &newSnap.Buffer
	}
	if oldSnap == nil || oldSnap.LastExpression != newSnap.LastExpression {
		diff.LastExpression = &newSnap.LastExpression
	}
	if oldSnap == nil || oldSnap.Memory != newSnap.Memory {
		diff.Memory = &newSnap.Memory
	}
	if oldSnap == nil || oldSnap.AngleMode != newSnap.AngleMode {
		diff.AngleMode = &newSnap.AngleMode
	}
	diff.History = diffHistory(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffHistory(old, new *Snapshot) *HistoryDelta {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return &HistoryDelta{Appended: append([]HistoryEntry(nil), new.History...)}
	}

	// Find how far the old tail survives at the head of the new ring.
	for shift := 0; shift <= len(old.History); shift++ {
		kept := old.History[shift:]
		if len(kept) > len(new.History) || !sameEntries(kept, new.History[:len(kept)]) {
			continue
		}
		if len(kept) == len(new.History) {
			return nil
		}
		return &HistoryDelta{Appended: append([]HistoryEntry(nil), new.History[len(kept):]...)}
	}
	return &HistoryDelta{Appended: append([]HistoryEntry(nil), new.History...)}
}

func sameEntries(a, b []HistoryEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Buffer == nil &&
		d.LastExpression == nil &&
		d.Memory == nil &&
		d.AngleMode == nil &&
		d.History == nil
}
