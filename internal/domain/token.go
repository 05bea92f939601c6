package domain

import "time"

// TokenIssuer issues signed session tokens (e.g. JWT) for a verified identity.
type TokenIssuer interface {
	Issue(subjectID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session or bearer token and returns the subject ID.
type TokenVerifier interface {
	Verify(token string) (subjectID string, err error)
}
