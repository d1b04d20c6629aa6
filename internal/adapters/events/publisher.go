package events

import (
	"context"
	"log/slog"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// LogPublisher is the default audit destination: one structured log record
// per event. Sufficient for single-process deployments; swap in the kafka
// publisher when events must leave the process.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.AuditEvent) error {
	p.logger.InfoContext(ctx, "audit event",
		"module", "events.publisher",
		"layer", "adapter",
		"operation", "publish_audit_event",
		"outcome", "success",
		"event_id", event.EventID,
		"occurred_at", event.OccurredAt,
		"actor", event.Actor,
		"kind", event.Kind,
		"event_outcome", event.Outcome,
		"target", event.Target,
	)
	return nil
}
