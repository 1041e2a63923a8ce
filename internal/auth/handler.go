package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
	"github.com/atlashq/backend/pkg/utils"
)

// UserStore is the directory contract the handler needs. *Repository
// implements it.
type UserStore interface {
	Create(ctx context.Context, email, emailRaw, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailRaw(ctx context.Context, emailRaw string) (*models.User, error)
	ActiveSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	users    UserStore
	sessions *SessionService
	cookie   SessionConfig
	secure   bool
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(users UserStore, sessions *SessionService, cookie SessionConfig, secure bool, logger *zap.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, cookie: cookie, secure: secure, logger: logger}
}

// Register handles POST /auth/register: shape-gate the address, canonicalize,
// create the account, and log the new user in.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if !MatchesEmailShape(req.Email) {
		response.ValidationFailed(c, map[string]string{"email": response.CodeEmailInvalid})
		return
	}
	canonical, ok := CanonicalizeEmail(req.Email)
	if !ok {
		response.ValidationFailed(c, map[string]string{"email": response.CodeEmailInvalid})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.users.Create(c.Request.Context(), canonical, req.Email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			response.ValidationFailed(c, map[string]string{"email": response.CodeEmailExists})
			return
		}
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	desc, err := h.sessions.Login(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("login after register", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	h.setSessionCookie(c, desc)
	response.Created(c, user.ToPublic())
}

// Login handles POST /auth/login. Credentials are checked against the
// canonical-email account first, then the raw form as a fallback for
// accounts whose entered address never matched its canonical shape.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("lookup user", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}
	if user == nil {
		user, err = h.users.GetByEmailRaw(c.Request.Context(), req.Email)
		if err != nil {
			h.logger.Error("lookup user by raw email", zap.Error(err))
			response.Internal(c, "login failed")
			return
		}
	}
	if user == nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	desc, err := h.sessions.Login(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("create session", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	h.setSessionCookie(c, desc)
	c.JSON(http.StatusOK, response.Body{Success: true, Data: user.ToPublic()})
}

// Logout handles POST /auth/logout. The server keeps lazy expiry; logout only
// clears the cookie client-side.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.secure, true)
	response.NoContent(c)
}

// Me handles GET /me for the session-authenticated user.
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	response.OK(c, user.ToPublic())
}

// MySessions handles GET /me/sessions: the caller's active sessions.
func (h *Handler) MySessions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	list, err := h.users.ActiveSessions(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list sessions", zap.Error(err))
		response.Internal(c, "failed to list sessions")
		return
	}
	response.OK(c, list)
}

func (h *Handler) setSessionCookie(c *gin.Context, desc CookieDescriptor) {
	maxAge := int(time.Until(desc.ExpiresAt).Seconds())
	c.SetCookie(desc.Name, desc.Value, maxAge, "/", "", h.secure, true)
}
