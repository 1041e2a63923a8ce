package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlashq/backend/internal/models"
)

// Repository handles profile persistence. A profile row is the sole evidence
// that a user belongs to an organization.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profiles repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create links a user to an organization. Idempotent on the (user,
// organization) pair: re-accepting an invite is not an error.
func (r *Repository) Create(ctx context.Context, userID, organizationID uuid.UUID) (*models.Profile, error) {
	const q = `INSERT INTO profiles (id, user_id, organization_id)
		VALUES (gen_random_uuid(), $1, $2)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, organization_id, created_at`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, userID, organizationID).
		Scan(&p.ID, &p.UserID, &p.OrganizationID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &p, nil
}

// IsPartOfOrganization reports whether a profile links the user to the
// organization. Straight read-through, no caching: the answer reflects
// persisted state at call time.
func (r *Repository) IsPartOfOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1 AND organization_id = $2)`
	var member bool
	if err := r.pool.QueryRow(ctx, q, userID, organizationID).Scan(&member); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return member, nil
}

// GetByUserAndOrganization returns the linking profile, or (nil, nil).
func (r *Repository) GetByUserAndOrganization(ctx context.Context, userID, organizationID uuid.UUID) (*models.Profile, error) {
	const q = `SELECT id, user_id, organization_id, created_at FROM profiles
		WHERE user_id = $1 AND organization_id = $2`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, userID, organizationID).
		Scan(&p.ID, &p.UserID, &p.OrganizationID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &p, nil
}
