package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	ActionAppointmentCreated     = "appointment_created"
	ActionAppointmentStatus      = "appointment_status_changed"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionAppointmentStartEarly  = "appointment_started_early"
	ActionWorkingDayDeleted      = "working_day_deleted"
	ActionDayOffCommitted        = "day_off_committed"
)

type Event struct {
	ProviderID uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

// StatusChange is the metadata of an ActionAppointmentStatus event.
type StatusChange struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
	At     string `json:"at"`
}

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher hands events to a sink from a single background worker.
// Dispatch never blocks: a full queue drops the event.
type Dispatcher struct {
	sink  Sink
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink) *Dispatcher {
	return NewDispatcherSize(sink, 100)
}

func NewDispatcherSize(sink Sink, size int) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Write(context.Background(), ev); err != nil {
			log.Warn().
				Err(err).
				Str("action", ev.Action).
				Uint("provider_id", ev.ProviderID).
				Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close drains the queue and waits for the worker. Dispatch must not be
// called afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
