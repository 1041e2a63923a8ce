package auth

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

// ErrEmailExists is returned when the canonical email already has an account.
var ErrEmailExists = errors.New("email already registered")

// Repository handles user and session persistence. Lookups return (nil, nil)
// when nothing matches; errors are reserved for data-access failures.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a user keyed by canonical email. The unique index on email
// is authoritative: a duplicate insert, even one racing a concurrent
// registration, surfaces as ErrEmailExists.
func (r *Repository) Create(ctx context.Context, email, emailRaw, passwordHash string) (*models.User, error) {
	const q = `INSERT INTO users (id, email, email_raw, password_hash)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_on`
	user := &models.User{Email: email, EmailRaw: emailRaw, PasswordHash: passwordHash}
	err := r.pool.QueryRow(ctx, q, email, emailRaw, passwordHash).Scan(&user.ID, &user.CreatedOn)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByEmail canonicalizes the address and matches on the canonical email.
// Input that fails the shape gate or cannot be canonicalized yields no
// result, not an error.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if !MatchesEmailShape(email) {
		return nil, nil
	}
	canonical, ok := CanonicalizeEmail(email)
	if !ok {
		return nil, nil
	}
	const q = `SELECT id, email, email_raw, password_hash, created_on FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, canonical))
}

// GetByEmailRaw matches on the address exactly as entered at registration.
func (r *Repository) GetByEmailRaw(ctx context.Context, emailRaw string) (*models.User, error) {
	const q = `SELECT id, email, email_raw, password_hash, created_on FROM users WHERE email_raw = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, emailRaw))
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, email, email_raw, password_hash, created_on FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

// GetBySession returns the user owning an active session. Expired sessions
// never match; they are filtered here rather than swept (lazy expiry).
func (r *Repository) GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.User, error) {
	const q = `SELECT u.id, u.email, u.email_raw, u.password_hash, u.created_on
		FROM users u
		INNER JOIN sessions s ON s.user_id = u.id
		WHERE s.id = $1 AND s.expires_on > now()`
	return r.scanUser(r.pool.QueryRow(ctx, q, sessionID))
}

// AttachSession appends a session to the user's session list. Plain insert
// into the child table: push-only, never rewrites the user row, so
// concurrent logins from other devices cannot lose each other.
func (r *Repository) AttachSession(ctx context.Context, userID uuid.UUID, session models.Session) error {
	const q = `INSERT INTO sessions (id, user_id, expires_on) VALUES ($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, q, session.ID, userID, session.ExpiresOn); err != nil {
		return fmt.Errorf("attach session: %w", err)
	}
	return nil
}

// ActiveSessions returns the user's unexpired sessions, newest expiry first.
func (r *Repository) ActiveSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	const q = `SELECT id, user_id, expires_on FROM sessions
		WHERE user_id = $1 AND expires_on > now()
		ORDER BY expires_on DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var list []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExpiresOn); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *Repository) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.EmailRaw, &u.PasswordHash, &u.CreatedOn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
