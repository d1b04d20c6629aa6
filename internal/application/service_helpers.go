package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/caretrack/strokeregistry/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", "stroke-registry",
		"module", "application",
		"layer", "application",
	)
}

// storageCtx bounds a store call with the configured timeout so an outage
// surfaces as ErrStorageUnavailable instead of an indefinite block.
func (s *Service) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}

// emit hands a security event to the audit pipeline. Recording is fire and
// forget; the decision it describes has already been made.
func (s *Service) emit(kind, outcome, actor, target string, detail map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		EventID:    uuid.New(),
		OccurredAt: s.nowFn(),
		Actor:      actor,
		Kind:       kind,
		Outcome:    outcome,
		Target:     target,
		Detail:     detail,
	})
}

// recordAttempt persists one authentication outcome. Best effort: a failed
// insert is logged and never fails the login path.
func (s *Service) recordAttempt(ctx context.Context, username string, succeeded bool, reason, remoteAddr string) {
	if s.loginAttempts == nil {
		return
	}
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.loginAttempts.Insert(sctx, domain.LoginAttempt{
		Username:    username,
		Succeeded:   succeeded,
		Reason:      reason,
		RemoteAddr:  remoteAddr,
		AttemptedAt: s.nowFn(),
	}); err != nil {
		appLogger().WarnContext(ctx, "failed to persist login attempt",
			"operation", "record_login_attempt",
			"outcome", "failure",
			"reason", reason,
			"error", err,
		)
	}
}

// normalizeEmail sanitizes and validates a registration email. Format
// matches the documented pattern: local part, domain, TLD of 2+ letters.
func normalizeEmail(email string) (string, error) {
	sanitized := domain.SanitizeText(email)
	if sanitized == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if !emailPattern.MatchString(sanitized) {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return sanitized, nil
}

// normalizeUsername sanitizes a username; never applied to passwords, which
// legitimately contain special characters.
func normalizeUsername(username string) (string, error) {
	sanitized := domain.SanitizeText(username)
	if sanitized == "" {
		return "", fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	return sanitized, nil
}

func actorName(identity domain.Identity) string {
	if strings.TrimSpace(identity.Username) == "" {
		return domain.AuditActorAnonymous
	}
	return identity.Username
}
