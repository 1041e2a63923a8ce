package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile links a user to an organization. Its existence is the sole
// evidence of membership.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}
