package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Recorder persists audit events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// MemoryRecorder keeps events in memory in arrival order. Intended for
// tests and small deployments; there is no eviction.
type MemoryRecorder struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends the event.
func (r *MemoryRecorder) Record(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of all recorded events in arrival order.
func (r *MemoryRecorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *MemoryRecorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

// SlogRecorder writes each event as a structured log record.
type SlogRecorder struct {
	log *slog.Logger
}

// NewSlogRecorder creates a recorder logging to the given logger. A nil
// logger falls back to slog.Default.
func NewSlogRecorder(log *slog.Logger) *SlogRecorder {
	if log == nil {
		log = slog.Default()
	}
	return &SlogRecorder{log: log}
}

// Record logs the event at info level.
func (r *SlogRecorder) Record(ctx context.Context, event Event) error {
	r.log.InfoContext(ctx, "authorization change",
		slog.String("audit_id", event.ID),
		slog.String("actor", event.Actor),
		slog.String("op", string(event.Op)),
		slog.String("relation", event.Relation),
		slog.Any("rule", event.Rule),
		slog.Bool("changed", event.Changed),
	)
	return nil
}
