package ports

import (
	"context"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// UserRepository defines persistence operations for identities.
// Uniqueness of username and email belongs to the store's constraints; a
// write-time violation is the authoritative duplicate signal, not a pre-check.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// LoginAttemptRepository stores authentication outcomes. Writes are
// best-effort: a failed insert never fails the login path.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	ListRecent(ctx context.Context, limit int) ([]domain.LoginAttempt, error)
}

// PatientFilter narrows a patient listing. Zero values mean no constraint;
// Stroke is a pointer so the 0 flag stays expressible.
type PatientFilter struct {
	Query  string
	Stroke *int
	Gender string
}

// PatientPage is one page of a filtered listing. Identical filter and page
// inputs always produce the identical page.
type PatientPage struct {
	Patients   []domain.Patient
	Page       int
	TotalCount int64
	TotalPages int
}

// PatientRepository is the document-store contract for clinical records.
// The store is the sole writer of patient documents; a duplicate clinical id
// surfaces as the unique-index violation mapped to domain.ErrConflict, and
// the clinical id itself is immutable once created.
type PatientRepository interface {
	Create(ctx context.Context, patient domain.Patient, actor string, at time.Time) (domain.Patient, error)
	Update(ctx context.Context, id int, patient domain.Patient, actor string, at time.Time) (domain.Patient, error)
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (domain.Patient, error)
	List(ctx context.Context, filter PatientFilter, page, pageSize int) (PatientPage, error)
	Recent(ctx context.Context, limit int) ([]domain.Patient, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
	Analytics(ctx context.Context) (domain.AnalyticsReport, error)
}

// AuditArchive appends delivered audit events to durable storage.
// Append-only: nothing updates or deletes archived events.
type AuditArchive interface {
	Append(ctx context.Context, event domain.AuditEvent) error
}
