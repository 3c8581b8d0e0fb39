package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
)

// LoggingHooks logs every session event at debug level, failures at info.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnEvaluate: func(e *domain.EvalEvent) {
			level := slog.LevelDebug
			if e.Kind != domain.KindNone {
				level = slog.LevelInfo
			}
			logger.Log(context.Background(), level, string(e.Type),
				"expression", e.Expression,
				"function", e.Function,
				"result", e.Result,
				"kind", e.Kind,
				"duration", e.Duration,
			)
		},
		OnMemory: func(e *domain.MemoryEvent) {
			logger.Debug("memory",
				"op", e.Op,
				"applied", e.Applied,
				"memory", e.Memory,
			)
		},
	}
}

// Combine fans each event out to every hook set, in order.
func Combine(sets ...domain.Hooks) domain.Hooks {
	return domain.Hooks{
		OnEvaluate: func(e *domain.EvalEvent) {
			for _, h := range sets {
				if h.OnEvaluate != nil {
					h.OnEvaluate(e)
				}
			}
		},
		OnMemory: func(e *domain.MemoryEvent) {
			for _, h := range sets {
				if h.OnMemory != nil {
					h.OnMemory(e)
				}
			}
		},
	}
}
