package http

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/abacus/pkg/domain"
)

// streamBuffer is how many diffs a slow subscriber may lag behind before drops.
const streamBuffer = 10

// StreamManager fans session diffs out to SSE subscribers.
// Its Publish method is a session.ChangeFunc.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *domain.SnapshotDiff]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan *domain.SnapshotDiff]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for sessionID. The returned function unsubscribes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan *domain.SnapshotDiff, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan *domain.SnapshotDiff, streamBuffer)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan *domain.SnapshotDiff]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		subs, ok := sm.subscribers[sessionID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; !ok {
			return
		}
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(sm.subscribers, sessionID)
		}
	}
}

// Publish sends diff to every subscriber of sessionID, dropping it for full subscribers.
func (sm *StreamManager) Publish(sessionID string, diff *domain.SnapshotDiff) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[sessionID]
	if !ok {
		return
	}
	sm.logger.Debug("StreamManager: Broadcasting", "session_id", sessionID, "subscribers", len(subs))
	for ch := range subs {
		select {
		case ch <- diff:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping diff", "session_id", sessionID)
		}
	}
}

// Close ends every stream of sessionID.
func (sm *StreamManager) Close(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for ch := range sm.subscribers[sessionID] {
		close(ch)
	}
	delete(sm.subscribers, sessionID)
}

// Subscribers reports how many streams are open for sessionID.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// parseWatch splits a watch parameter into a set of field names.
// A nil set means every field is watched.
func parseWatch(watch *string) map[string]bool {
	if watch == nil || strings.TrimSpace(*watch) == "" {
		return nil
	}
	fields := make(map[string]bool)
	for _, field := range strings.Split(*watch, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields[field] = true
		}
	}
	return fields
}

// watches reports whether diff touches any of the watched fields.
func watches(fields map[string]bool, diff *domain.SnapshotDiff) bool {
	if fields == nil {
		return true
	}
	return (fields["buffer"] && diff.Buffer != nil) ||
		(fields["last_expression"] && diff.LastExpression != nil) ||
		(fields["memory"] && diff.Memory != nil) ||
		(fields["angle_mode"] && diff.AngleMode != nil) ||
		(fields["history"] && diff.History != nil)
}
