package invites

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/auth"
	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
)

// OrganizationStore resolves invite targets.
type OrganizationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

// ProfileStore creates and checks membership links.
type ProfileStore interface {
	Create(ctx context.Context, userID, organizationID uuid.UUID) (*models.Profile, error)
	IsPartOfOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error)
}

// CreateRequest is the body for POST /organizations/:id/invites.
type CreateRequest struct {
	Email string `json:"email" binding:"required"`
}

// AcceptRequest is the body for POST /invites/accept.
type AcceptRequest struct {
	Token string `json:"token" binding:"required"`
}

// Handler handles organization invite endpoints.
type Handler struct {
	tokens   *Service
	orgs     OrganizationStore
	profiles ProfileStore
	logger   *zap.Logger
}

// NewHandler creates an invites handler.
func NewHandler(tokens *Service, orgs OrganizationStore, profiles ProfileStore, logger *zap.Logger) *Handler {
	return &Handler{tokens: tokens, orgs: orgs, profiles: profiles, logger: logger}
}

// Create handles POST /organizations/:id/invites. Only owners and existing
// members may invite.
func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !auth.MatchesEmailShape(req.Email) {
		response.ValidationFailed(c, map[string]string{"email": response.CodeEmailInvalid})
		return
	}

	org, err := h.orgs.GetByID(c.Request.Context(), orgID)
	if err != nil {
		h.logger.Error("lookup organization", zap.Error(err))
		response.Internal(c, "failed to create invite")
		return
	}
	if org == nil {
		response.NotFound(c, "organization not found")
		return
	}

	allowed := slices.Contains(org.Owners, user.ID.String())
	if !allowed {
		allowed, err = h.profiles.IsPartOfOrganization(c.Request.Context(), user.ID, orgID)
		if err != nil {
			h.logger.Error("check membership", zap.Error(err))
			response.Internal(c, "failed to create invite")
			return
		}
	}
	if !allowed {
		response.Forbidden(c, "not a member of this organization")
		return
	}

	canonical, ok := auth.CanonicalizeEmail(req.Email)
	if !ok {
		response.ValidationFailed(c, map[string]string{"email": response.CodeEmailInvalid})
		return
	}
	token, err := h.tokens.Generate(org.ID.String(), canonical)
	if err != nil {
		h.logger.Error("generate invite", zap.Error(err))
		response.Internal(c, "failed to create invite")
		return
	}
	response.Created(c, gin.H{"token": token})
}

// Accept handles POST /invites/accept: verify the token, check it was issued
// for the caller's canonical email, and create the membership profile.
func (h *Handler) Accept(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	claims, err := h.tokens.Verify(req.Token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired invite")
		return
	}
	if claims.Email != user.Email {
		response.Forbidden(c, "invite was issued for a different account")
		return
	}
	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		response.BadRequest(c, "invalid invite")
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), user.ID, orgID)
	if err != nil {
		h.logger.Error("create profile", zap.Error(err))
		response.Internal(c, "failed to join organization")
		return
	}
	response.Created(c, profile)
}
