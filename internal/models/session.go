package models

import "time"

// Session is a server-side login session. CurrentFamilyID records which
// household the user has selected; it is a convenience pointer only and is
// re-verified against live membership on every request.
type Session struct {
	ID              string
	UserID          int64
	CurrentFamilyID *int64
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// IsExpired reports whether the session has passed its expiry time
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
