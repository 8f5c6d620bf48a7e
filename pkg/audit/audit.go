package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActorExtractor pulls the acting subject out of a context.
type ActorExtractor func(ctx context.Context) (string, bool)

// Trail stamps authorization change events and hands them to a Recorder.
type Trail struct {
	recorder Recorder
	actor    ActorExtractor
	now      func() time.Time
}

// Option configures a Trail during construction.
type Option func(*Trail)

// WithActorExtractor registers a function that resolves the acting subject
// from the call context. Without one, events carry no actor.
func WithActorExtractor(fn ActorExtractor) Option {
	return func(t *Trail) {
		if fn != nil {
			t.actor = fn
		}
	}
}

// WithClock overrides the event timestamp source. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a Trail writing to the given recorder.
func New(recorder Recorder, opts ...Option) (*Trail, error) {
	if recorder == nil {
		return nil, ErrNilRecorder
	}
	t := &Trail{
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Record builds an event for one authorization change and records it.
// The changed flag mirrors the mutation's own result: no-op mutations are
// still recorded, marked unchanged.
func (t *Trail) Record(ctx context.Context, op Op, relation string, rule []string, changed bool) error {
	event := Event{
		ID:        uuid.New().String(),
		Op:        op,
		Relation:  relation,
		Rule:      append([]string(nil), rule...),
		Changed:   changed,
		CreatedAt: t.now(),
	}
	if t.actor != nil {
		if actor, ok := t.actor(ctx); ok {
			event.Actor = actor
		}
	}
	return t.recorder.Record(ctx, event)
}
