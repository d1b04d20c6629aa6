package domain

import "time"

// Role is the authorization level bound to an identity and snapshotted into
// sessions at login time.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the two roles the system recognizes.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// User is a registered identity capable of authenticating.
// Username and email are case-sensitive unique across all identities; the
// password hash never leaves the hasher in plaintext-recoverable form.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Identity is the authenticated view handed to request handlers after
// Authorize. Role is the session snapshot, not a live credential-store read.
type Identity struct {
	ID       int64
	Username string
	Role     Role
}

// Session binds an opaque token to an identity and the role it held at login.
// The token itself encodes nothing; all session meaning lives in this record,
// and the session manager is its sole mutator.
type Session struct {
	Token          string
	UserID         int64
	Username       string
	Role           Role
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// LoginAttempt records one authentication outcome for operational review.
type LoginAttempt struct {
	ID          int64
	Username    string
	Succeeded   bool
	Reason      string
	RemoteAddr  string
	AttemptedAt time.Time
}
