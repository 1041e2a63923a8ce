package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform account. Email holds the canonical form and is
// unique; EmailRaw is the address exactly as the user entered it, kept for
// display.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	EmailRaw     string    `json:"email_raw"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"created_on"`
}

// Session is a time-limited credential owned by a single user. A session is
// active iff ExpiresOn is strictly in the future; expired sessions are never
// deleted, only filtered out at lookup time.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	ExpiresOn time.Time `json:"expires_on"`
}

// UserPublic is the response-safe projection of User: no password hash, no
// session list.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	EmailRaw  string    `json:"email_raw"`
	CreatedOn time.Time `json:"created_on"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		EmailRaw:  u.EmailRaw,
		CreatedOn: u.CreatedOn,
	}
}
