package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atlashq/backend/internal/models"
)

// SessionStore is the persistence contract the session service needs.
// *Repository implements it.
type SessionStore interface {
	AttachSession(ctx context.Context, userID uuid.UUID, session models.Session) error
}

// SessionConfig carries the externally configured session policy.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// CookieDescriptor is what a login produces: enough for the transport layer
// to render a Set-Cookie header. Value is the opaque session id.
type CookieDescriptor struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// SessionService mints sessions and attaches them to users.
type SessionService struct {
	store SessionStore
	cfg   SessionConfig
	now   func() time.Time
}

// NewSessionService creates a session service with the given policy.
func NewSessionService(store SessionStore, cfg SessionConfig) *SessionService {
	return &SessionService{store: store, cfg: cfg, now: time.Now}
}

// New mints a fresh session expiring one TTL from now.
func (s *SessionService) New() models.Session {
	return models.Session{
		ID:        uuid.New(),
		ExpiresOn: s.now().Add(s.cfg.TTL),
	}
}

// Login creates a session for an already-authenticated user, persists the
// append, and returns the cookie descriptor. A persistence failure
// propagates unchanged; retries are the caller's concern.
func (s *SessionService) Login(ctx context.Context, user *models.User) (CookieDescriptor, error) {
	session := s.New()
	if err := s.store.AttachSession(ctx, user.ID, session); err != nil {
		return CookieDescriptor{}, err
	}
	return CookieDescriptor{
		Name:      s.cfg.CookieName,
		Value:     session.ID.String(),
		ExpiresAt: session.ExpiresOn,
	}, nil
}
