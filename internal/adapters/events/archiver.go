package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
	"github.com/caretrack/strokeregistry/internal/ports"
)

// AuditSource yields the next delivered audit event; the kafka consumer is
// the production implementation.
type AuditSource interface {
	Next(ctx context.Context) (domain.AuditEvent, error)
}

// Archiver copies published audit events into durable append-only storage.
// Archive failures back off and move on; the source decides redelivery.
type Archiver struct {
	logger  *slog.Logger
	source  AuditSource
	archive ports.AuditArchive
	backoff time.Duration
}

func NewArchiver(logger *slog.Logger, source AuditSource, archive ports.AuditArchive) *Archiver {
	return &Archiver{
		logger:  logger,
		source:  source,
		archive: archive,
		backoff: 2 * time.Second,
	}
}

// Run consumes and archives events until context cancellation.
func (a *Archiver) Run(ctx context.Context) error {
	for {
		event, err := a.source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			a.logger.ErrorContext(ctx, "audit source read failed",
				"module", "events.archiver",
				"layer", "adapter",
				"operation", "consume_audit_event",
				"outcome", "failure",
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.backoff):
			}
			continue
		}

		if err := a.archive.Append(ctx, event); err != nil {
			a.logger.ErrorContext(ctx, "audit archive append failed",
				"module", "events.archiver",
				"layer", "adapter",
				"operation", "archive_audit_event",
				"outcome", "failure",
				"event_id", event.EventID,
				"kind", event.Kind,
				"error", err,
			)
			continue
		}
		a.logger.InfoContext(ctx, "audit event archived",
			"module", "events.archiver",
			"layer", "adapter",
			"operation", "archive_audit_event",
			"outcome", "success",
			"event_id", event.EventID,
			"kind", event.Kind,
		)
	}
}
