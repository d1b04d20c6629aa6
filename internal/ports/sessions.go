package ports

import (
	"context"
	"time"

	"github.com/caretrack/strokeregistry/internal/domain"
)

// SessionStore keeps live sessions keyed by opaque token. Implementations
// must support concurrent validate and evict without lost updates. Expiry
// decisions belong to the session manager; the store only holds state.
type SessionStore interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, bool, error)
	Touch(ctx context.Context, token string, at time.Time) error
	Delete(ctx context.Context, token string) error
}
