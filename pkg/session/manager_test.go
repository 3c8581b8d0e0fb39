package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[sessionID] = snap.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_Locking(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	id := "race-test"

	_, err := manager.LoadOrCreate(ctx, id)
	require.NoError(t, err)

	// Read-Modify-Write without locking would lose updates.
	var wg sync.WaitGroup
	concurrentWrites := 10
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Do(ctx, id, func(s *session.Session) error {
				s.ClearEntry()
				if err := s.AppendDigit("1"); err != nil {
					return err
				}
				s.MemoryAdd()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, float64(concurrentWrites), snap.Memory)
}

func TestManager_LoadOrCreate(t *testing.T) {
	manager := session.NewManager(&SlowStore{}, session.WithSessionOptions(session.WithAngleMode(domain.Radians)))
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := manager.LoadOrCreate(ctx, id)
			assert.NoError(t, err)
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Radians, snap.AngleMode)
}

func TestManager_DoPersistsFailures(t *testing.T) {
	var diffs []*domain.SnapshotDiff
	manager := session.NewManager(memory.NewStore(), session.WithChangeFunc(func(id string, diff *domain.SnapshotDiff) {
		diffs = append(diffs, diff)
	}))
	ctx := context.Background()

	id, _, err := manager.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snap, err := manager.Do(ctx, id, func(s *session.Session) error {
		if err := s.AppendText("5/0"); err != nil {
			return err
		}
		_, err := s.Evaluate()
		return err
	})
	assert.ErrorIs(t, err, domain.ErrDivideByZero)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Buffer)
	assert.Empty(t, snap.History)

	snap, err = manager.Do(ctx, id, func(s *session.Session) error {
		if err := s.AppendText("2+3"); err != nil {
			return err
		}
		_, err := s.Evaluate()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "5", snap.Buffer)

	loaded, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	require.NotEmpty(t, diffs)
	last := diffs[len(diffs)-1]
	require.NotNil(t, last.History)
	assert.Equal(t, []domain.HistoryEntry{{Expression: "2+3", Result: "5"}}, last.History.Appended)
}

func TestManager_NotFound(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.Do(ctx, "missing", func(s *session.Session) error { return nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = manager.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, manager.Delete(ctx, "missing"), domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	a, _, err := manager.Create(ctx)
	require.NoError(t, err)
	b, _, err := manager.Create(ctx)
	require.NoError(t, err)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, ids)

	require.NoError(t, manager.Delete(ctx, a))
	ids, err = manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{b}, ids)
}

func TestManager_CanceledContext(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.LoadOrCreate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
