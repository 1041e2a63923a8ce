package organizations

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
)

// Registrar is the persistence contract for organization creation.
// *Repository implements it.
type Registrar interface {
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, name, slug string, ownerID uuid.UUID) (*models.Organization, error)
}

// CreateRequest is the body for POST /organizations.
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateResponse wraps the created organization for transport.
type CreateResponse struct {
	Organizations []*models.Organization `json:"organizations"`
}

// Handler handles organization HTTP endpoints.
type Handler struct {
	registrar Registrar
	logger    *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(registrar Registrar, logger *zap.Logger) *Handler {
	return &Handler{registrar: registrar, logger: logger}
}

// Create handles POST /organizations: validate the derived slug, then insert.
// The pre-check gives an early SLUG_EXISTS; the storage constraint is what
// actually holds the invariant under concurrent requests with the same name.
func (h *Handler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	slug := Slugify(req.Name)
	if slug == "" {
		response.ValidationFailed(c, map[string]string{"name": response.CodeNameInvalid})
		return
	}

	taken, err := h.registrar.SlugTaken(c.Request.Context(), slug)
	if err != nil {
		h.logger.Error("check slug", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}
	if taken {
		response.ValidationFailed(c, map[string]string{"slug": response.CodeSlugExists})
		return
	}

	org, err := h.registrar.Create(c.Request.Context(), req.Name, slug, user.ID)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.ValidationFailed(c, map[string]string{"slug": response.CodeSlugExists})
			return
		}
		h.logger.Error("create organization", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}

	response.Created(c, CreateResponse{Organizations: []*models.Organization{org}})
}
