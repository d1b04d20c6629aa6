package ports

// PasswordHasher produces and verifies salted one-way digests.
// Verify fails closed: any error during comparison reports a non-match.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenSource yields opaque, unguessable session tokens. A token carries no
// encoded meaning; sessions are resolved server-side only.
type TokenSource interface {
	NewToken() (string, error)
}
