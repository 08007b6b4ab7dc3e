package models

import "time"

// SessionToken defines an issued authentication artifact for a graduate,
// based on the 'session_tokens' table. One graduate may hold many
// concurrent tokens.
type SessionToken struct {
	ID         int64     `json:"id" db:"id"`
	GraduateID int64     `json:"graduateId" db:"graduate_id"`
	Token      string    `json:"token" db:"token"`
	ExpiresAt  time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Expired reports whether the token expiry is in the past
func (t *SessionToken) Expired() bool {
	return t.ExpiresAt.Before(time.Now())
}
