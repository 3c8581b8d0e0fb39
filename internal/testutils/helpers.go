package testutils

import (
	"testing"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/aretw0/abacus/pkg/session"
	"github.com/stretchr/testify/require"
)

// NewManager creates a session manager over a fresh in-memory store with a silent logger.
// Extra options are applied after the defaults.
func NewManager(t *testing.T, opts ...session.ManagerOption) *session.Manager {
	t.Helper()

	defaults := []session.ManagerOption{
		session.WithManagerLogger(logging.NewNop()),
		session.WithSessionOptions(session.WithLogger(logging.NewNop())),
	}
	return session.NewManager(memory.NewStore(), append(defaults, opts...)...)
}

// Press dispatches keys in order and fails the test immediately on error.
func Press(t *testing.T, s *session.Session, keys ...string) {
	t.Helper()

	for _, key := range keys {
		require.NoError(t, runner.Dispatch(s, key), "key %q", key)
	}
}
