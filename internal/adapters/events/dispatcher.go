package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
	"github.com/caretrack/strokeregistry/internal/ports"
)

// Dispatcher decouples security decisions from audit delivery. Record never
// blocks and never fails the operation that raised the event: a full buffer
// drops the event and counts the drop, a failed publish is logged to the
// operational channel only.
type Dispatcher struct {
	logger         *slog.Logger
	publisher      ports.AuditPublisher
	events         chan domain.AuditEvent
	publishTimeout time.Duration

	dropped   atomic.Uint64
	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts the single delivery worker. Buffer bounds how many
// events may be in flight before Record starts dropping.
func NewDispatcher(logger *slog.Logger, publisher ports.AuditPublisher, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		logger:         logger,
		publisher:      publisher,
		events:         make(chan domain.AuditEvent, buffer),
		publishTimeout: 5 * time.Second,
		done:           make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) Record(event domain.AuditEvent) {
	select {
	case d.events <- event:
	default:
		d.dropped.Add(1)
		d.logger.Warn("audit buffer full; event dropped",
			"module", "events.dispatcher",
			"layer", "adapter",
			"operation", "record_audit_event",
			"outcome", "failure",
			"kind", event.Kind,
			"dropped_total", d.dropped.Load(),
		)
	}
}

// Dropped reports how many events were lost to a full buffer since start.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Close stops accepting events and drains what is already buffered.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.events)
	})
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		err := d.publisher.Publish(ctx, event)
		cancel()
		if err != nil {
			d.logger.Error("audit publish failed",
				"module", "events.dispatcher",
				"layer", "adapter",
				"operation", "publish_audit_event",
				"outcome", "failure",
				"kind", event.Kind,
				"event_id", event.EventID,
				"error", err,
			)
		}
	}
}
