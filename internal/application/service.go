package application

import (
	"time"

	"github.com/caretrack/strokeregistry/internal/ports"
)

// Service implements the security and validation core. Every collaborator
// arrives through Dependencies; nothing here reaches for package-level
// state, so tests and the runtime wire it the same way.
type Service struct {
	cfg           Config
	users         ports.UserRepository
	loginAttempts ports.LoginAttemptRepository
	patients      ports.PatientRepository
	sessions      ports.SessionStore
	limiter       ports.AttemptLimiter
	hasher        ports.PasswordHasher
	tokens        ports.TokenSource
	audit         ports.AuditRecorder
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Users         ports.UserRepository
	LoginAttempts ports.LoginAttemptRepository
	Patients      ports.PatientRepository
	Sessions      ports.SessionStore
	Limiter       ports.AttemptLimiter
	Hasher        ports.PasswordHasher
	Tokens        ports.TokenSource
	Audit         ports.AuditRecorder
	// Now overrides the clock; nil means UTC wall time.
	Now func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 2 * time.Hour
	}
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = 5 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:           cfg,
		users:         deps.Users,
		loginAttempts: deps.LoginAttempts,
		patients:      deps.Patients,
		sessions:      deps.Sessions,
		limiter:       deps.Limiter,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		audit:         deps.Audit,
		nowFn:         nowFn,
	}
}
