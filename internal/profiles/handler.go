package profiles

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/pkg/response"
)

// MembershipChecker answers whether a user participates in an organization.
// *Repository implements it.
type MembershipChecker interface {
	IsPartOfOrganization(ctx context.Context, userID, organizationID uuid.UUID) (bool, error)
}

// Handler handles membership HTTP endpoints.
type Handler struct {
	profiles MembershipChecker
	logger   *zap.Logger
}

// NewHandler creates a profiles handler.
func NewHandler(profiles MembershipChecker, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, logger: logger}
}

// Membership handles GET /organizations/:id/membership for the current user.
func (h *Handler) Membership(c *gin.Context) {
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
	member, err := h.profiles.IsPartOfOrganization(c.Request.Context(), user.ID, orgID)
	if err != nil {
		h.logger.Error("check membership", zap.Error(err))
		response.Internal(c, "failed to check membership")
		return
	}
	response.OK(c, gin.H{"member": member})
}
