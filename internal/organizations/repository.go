package organizations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlashq/backend/internal/models"
)

// ErrSlugExists is returned when an organization already holds the slug. The
// primary key on organization_slugs is the authoritative guard; SlugTaken is
// only a fast-path check.
var ErrSlugExists = errors.New("slug already in use")

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SlugTaken reports whether any organization, past or present, holds the
// slug. Advisory only: two concurrent creators can both see false here, and
// the insert constraint settles it.
func (r *Repository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM organization_slugs WHERE slug = $1)`
	var taken bool
	if err := r.pool.QueryRow(ctx, q, slug).Scan(&taken); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// Create inserts an organization owned by ownerID with a single slug. The
// organization row and its slug row commit in one transaction; a unique
// violation on the slug, including one that raced past SlugTaken, maps to
// ErrSlugExists and nothing persists.
func (r *Repository) Create(ctx context.Context, name, slug string, ownerID uuid.UUID) (*models.Organization, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	org := &models.Organization{
		Name:   name,
		Slugs:  []string{slug},
		Owners: []string{ownerID.String()},
	}
	const insertOrg = `INSERT INTO organizations (id, name, slugs, owners)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertOrg, name, org.Slugs, org.Owners).Scan(&org.ID, &org.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert organization: %w", err)
	}

	const insertSlug = `INSERT INTO organization_slugs (slug, organization_id) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insertSlug, slug, org.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("insert slug: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return org, nil
}

// GetByID returns an organization by id, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	const q = `SELECT id, name, slugs, owners, created_at FROM organizations WHERE id = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, id).Scan(&org.ID, &org.Name, &org.Slugs, &org.Owners, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query organization: %w", err)
	}
	return &org, nil
}

// GetBySlug returns the organization holding the slug, current or
// historical, or (nil, nil) when absent.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	const q = `SELECT o.id, o.name, o.slugs, o.owners, o.created_at
		FROM organizations o
		INNER JOIN organization_slugs s ON s.organization_id = o.id
		WHERE s.slug = $1`
	var org models.Organization
	err := r.pool.QueryRow(ctx, q, slug).Scan(&org.ID, &org.Name, &org.Slugs, &org.Owners, &org.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query organization: %w", err)
	}
	return &org, nil
}
