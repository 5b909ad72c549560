package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	events  []Event
	fail    bool
	release chan struct{}
}

func (s *recordingSink) Write(_ context.Context, ev Event) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.Dispatch(Event{ProviderID: 1, Action: ActionAppointmentCreated})
	d.Dispatch(Event{ProviderID: 1, Action: ActionAppointmentStatus, Metadata: StatusChange{From: "pending", To: "confirmed"}})
	d.Close()

	assert.Equal(t, []string{ActionAppointmentCreated, ActionAppointmentStatus}, sink.actions())
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{release: make(chan struct{})}
	d := NewDispatcherSize(sink, 1)

	// The worker takes at most one event and blocks on release, the
	// queue holds one more; the rest are dropped without blocking.
	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: ActionAppointmentCreated})
	}
	close(sink.release)
	d.Close()

	got := len(sink.actions())
	require.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 2)
}

func TestDispatcher_SinkErrorsAreSwallowed(t *testing.T) {
	sink := &recordingSink{fail: true}
	d := NewDispatcher(sink)

	d.Dispatch(Event{Action: ActionDayOffCommitted})
	d.Close()

	assert.Empty(t, sink.actions())
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: ActionAppointmentCreated}) })
}
