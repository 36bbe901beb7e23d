package worker

import (
	"context"
	"time"

	"context-gateway/internal/model"
)

// Kind tags a background task.
type Kind string

const (
	KindPersistMemory       Kind = "persist_memory"
	KindDeepAnalysis        Kind = "deep_analysis"
	KindRegenerateNarrative Kind = "regenerate_narrative"
)

// Task is one fire-and-forget unit of work.
type Task struct {
	ID      string
	Kind    Kind
	Payload string
	// Source records who asked for the task, e.g. SourceTurn or SourceExplicit.
	Source     string
	Scope      model.Scope
	EnqueuedAt time.Time
}

const (
	SourceTurn      = "turn"
	SourceExplicit  = "explicit"
	SourceScheduler = "scheduler"
)

// HandlerFunc executes a task. The context carries the task scope and deadline.
type HandlerFunc func(ctx context.Context, t Task) error

// Config for the coordinator.
type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// Enqueuer is the producer side of the coordinator.
type Enqueuer interface {
	Enqueue(t Task) bool
}
