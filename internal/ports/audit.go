package ports

import (
	"context"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// AuditRecorder accepts security events for asynchronous delivery. Record
// must not block on a slow pipeline and never surfaces a failure to the
// operation that raised the event.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditPublisher delivers one audit event to its destination.
type AuditPublisher interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
}
