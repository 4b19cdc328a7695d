package model

import "time"

// Session is a server-side login session. The client holds a signed token
// whose sid claim is the session ID; deleting the row revokes the token.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
