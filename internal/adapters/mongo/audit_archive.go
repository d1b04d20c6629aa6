package mongo

import (
	"context"

	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// AuditArchive appends delivered audit events to the audit_events
// collection. Strictly append-only: no update or delete path exists.
type AuditArchive struct {
	events *driver.Collection
}

func NewAuditArchive(db *driver.Database) *AuditArchive {
	return &AuditArchive{events: db.Collection(auditCollection)}
}

func (a *AuditArchive) Append(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDocument{
		EventID:    event.EventID.String(),
		OccurredAt: event.OccurredAt,
		Actor:      event.Actor,
		Kind:       event.Kind,
		Outcome:    event.Outcome,
		Target:     event.Target,
		Detail:     event.Detail,
	}
	if _, err := a.events.InsertOne(ctx, doc); err != nil {
		return translateError(err)
	}
	return nil
}
