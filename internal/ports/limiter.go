package ports

import "context"

// AttemptLimiter bounds authentication attempts per identity key within a
// time window. CheckAndRecord counts the current attempt and reports whether
// it may proceed; Reset clears the key after a successful authentication.
// Keys are case-sensitive usernames.
type AttemptLimiter interface {
	CheckAndRecord(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
