package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/google/uuid"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// ChangeFunc receives the difference produced by one event on a session.
type ChangeFunc func(sessionID string, diff *domain.SnapshotDiff)

// Manager orchestrates session access, ensuring every event on a session runs to
// completion before the next one starts. It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	sessionOpts []Option
	onChange    ChangeFunc
	logger      *slog.Logger
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithSessionOptions sets the options applied to every session the manager builds.
func WithSessionOptions(opts ...Option) ManagerOption {
	return func(m *Manager) {
		m.sessionOpts = append(m.sessionOpts, opts...)
	}
}

// WithChangeFunc registers a callback invoked after an event changed a session.
func WithChangeFunc(fn ChangeFunc) ManagerOption {
	return func(m *Manager) {
		m.onChange = fn
	}
}

// WithManagerLogger configures a logger for the Manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given store.
func NewManager(store ports.SessionStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// NewSession builds a detached session with the manager's options.
func (m *Manager) NewSession() *Session {
	return New(m.sessionOpts...)
}

// Create starts a new session under a generated ID.
func (m *Manager) Create(ctx context.Context) (string, *domain.Snapshot, error) {
	id := uuid.NewString()
	snap, err := m.LoadOrCreate(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, snap, nil
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// LoadOrCreate tries to load a session. If not found, it initializes a new one.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		snap = m.NewSession().Snapshot()
		if err := m.store.Save(ctx, sessionID, snap); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.logger.Debug("session created", "session_id", sessionID)
		return nil
	})
	return snap, err
}

// Do runs fn against the session while holding its lock and persists the result.
// The session is saved even when fn fails, since a failed evaluation still clears the buffer.
// It returns the snapshot after fn and the error returned by fn.
func (m *Manager) Do(ctx context.Context, sessionID string, fn func(*Session) error) (*domain.Snapshot, error) {
	var (
		after *domain.Snapshot
		fnErr error
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		before, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		s := Restore(before, m.sessionOpts...)
		fnErr = fn(s)
		after = s.Snapshot()

		diff := domain.Diff(sessionID, before, after)
		if diff == nil {
			return nil
		}
		if err := m.store.Save(ctx, sessionID, after); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		if m.onChange != nil {
			m.onChange(sessionID, diff)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return after, fnErr
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
