package organizations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
)

type registrarFake struct {
	taken       map[string]bool
	createErr   error
	createCalls int
}

func (f *registrarFake) SlugTaken(_ context.Context, slug string) (bool, error) {
	return f.taken[slug], nil
}

func (f *registrarFake) Create(_ context.Context, name, slug string, ownerID uuid.UUID) (*models.Organization, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Organization{
		ID:     uuid.New(),
		Name:   name,
		Slugs:  []string{slug},
		Owners: []string{ownerID.String()},
	}, nil
}

func newOrgRouter(registrar Registrar, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/organizations", func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUser, user)
		}
		c.Next()
	}, NewHandler(registrar, zap.NewNop()).Create)
	return r
}

func postOrganization(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrganization(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	registrar := &registrarFake{taken: map[string]bool{}}
	r := newOrgRouter(registrar, user)

	w := postOrganization(t, r, CreateRequest{Name: "Acme Corp"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Organizations []models.Organization `json:"organizations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Data.Organizations, 1)

	org := body.Data.Organizations[0]
	assert.Equal(t, "Acme Corp", org.Name)
	assert.Equal(t, []string{"acme-corp"}, org.Slugs)
	assert.Equal(t, []string{user.ID.String()}, org.Owners)
}

func TestCreateOrganizationSlugExists(t *testing.T) {
	registrar := &registrarFake{taken: map[string]bool{"acme-corp": true}}
	r := newOrgRouter(registrar, &models.User{ID: uuid.New()})

	w := postOrganization(t, r, CreateRequest{Name: "Acme Corp"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ValidationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeSlugExists, body.Errors["slug"])
	assert.Zero(t, registrar.createCalls, "no insert after a failed validation")
}

func TestCreateOrganizationLostRace(t *testing.T) {
	// Pre-check passes but the insert hits the unique constraint: the
	// storage-level guard is authoritative and reports the same code.
	registrar := &registrarFake{taken: map[string]bool{}, createErr: ErrSlugExists}
	r := newOrgRouter(registrar, &models.User{ID: uuid.New()})

	w := postOrganization(t, r, CreateRequest{Name: "Acme Corp"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ValidationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeSlugExists, body.Errors["slug"])
}

func TestCreateOrganizationStorageError(t *testing.T) {
	registrar := &registrarFake{taken: map[string]bool{}, createErr: errors.New("connection reset")}
	r := newOrgRouter(registrar, &models.User{ID: uuid.New()})

	w := postOrganization(t, r, CreateRequest{Name: "Acme Corp"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset", "storage detail must not leak")
}

func TestCreateOrganizationInvalidName(t *testing.T) {
	registrar := &registrarFake{taken: map[string]bool{}}
	r := newOrgRouter(registrar, &models.User{ID: uuid.New()})

	w := postOrganization(t, r, CreateRequest{Name: "!!!"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, registrar.createCalls)
}

func TestCreateOrganizationUnauthenticated(t *testing.T) {
	r := newOrgRouter(&registrarFake{taken: map[string]bool{}}, nil)
	w := postOrganization(t, r, CreateRequest{Name: "Acme Corp"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
