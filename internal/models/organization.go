package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant. Slugs holds every slug the organization
// has carried, current first; each slug is globally unique across all
// organizations. Owners holds the user ids that own the tenant, initially
// the creator.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slugs     []string  `json:"slugs"`
	Owners    []string  `json:"owners"`
	CreatedAt time.Time `json:"created_at"`
}

// Slug returns the organization's current slug.
func (o *Organization) Slug() string {
	if len(o.Slugs) == 0 {
		return ""
	}
	return o.Slugs[0]
}
