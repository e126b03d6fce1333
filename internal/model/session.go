package model

import "time"

// Session is a server-side session record. The ID is the opaque token
// carried in the client cookie. A session without a user reference is
// anonymous. Expiry is enforced both by the store (TTL index) and by an
// explicit check on resolve, since TTL reapers run with a delay.
type Session struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// IsAnonymous reports whether the session carries no user reference.
func (s *Session) IsAnonymous() bool {
	return s.UserID == ""
}

// IsExpired reports whether the session's TTL has elapsed.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
