package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEvaluate EventType = "evaluate"
	EventApply    EventType = "apply"
	EventMemory   EventType = "memory"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// EvalEvent describes one run of the evaluation pipeline.
type EvalEvent struct {
	EventBase
	Expression string        `json:"expression"`
	Function   string        `json:"function,omitempty"`
	Result     string        `json:"result,omitempty"`
	Kind       ErrorKind     `json:"kind,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// MemoryEvent describes a memory register command.
type MemoryEvent struct {
	EventBase
	Op      string  `json:"op"`
	Memory  float64 `json:"memory"`
	Applied bool    `json:"applied"`
}

// Hooks defines callbacks for session observability.
type Hooks struct {
	OnEvaluate func(*EvalEvent)
	OnMemory   func(*MemoryEvent)
}
