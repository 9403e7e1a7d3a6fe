package domain

import "time"

// Session is the server-side record behind one issued refresh token. Rows
// are never deleted; revocation is recorded in place and kept as an audit
// trail.
type Session struct {
	ID               string
	AccountID        int64
	Token            string
	OriginIP         string
	ClientDescriptor string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

// Usable reports whether the session can still mint access tokens: never
// revoked and strictly before its expiry. A session expiring exactly now is
// already unusable.
func (s *Session) Usable(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
