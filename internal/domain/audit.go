package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit event kinds recorded by the security core.
const (
	AuditLoginSuccess        = "login_success"
	AuditLoginFailure        = "login_failure"
	AuditRateLimited         = "rate_limited"
	AuditRegistration        = "registration"
	AuditPatientCreated      = "patient_created"
	AuditPatientUpdated      = "patient_updated"
	AuditPatientDeleted      = "patient_deleted"
	AuditAuthorizationDenied = "authorization_denied"
	AuditRoleChanged         = "role_changed"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeDenied  = "denied"
)

// AuditActorAnonymous marks events raised before any identity was resolved.
const AuditActorAnonymous = "anonymous"

// AuditEvent is one security event. Events are append-only: once recorded,
// no component edits or deletes them, and recording never fails the
// operation that raised the event.
type AuditEvent struct {
	EventID    uuid.UUID         `json:"event_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Actor      string            `json:"actor"`
	Kind       string            `json:"kind"`
	Outcome    string            `json:"outcome"`
	Target     string            `json:"target,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
}
