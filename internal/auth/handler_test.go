package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlashq/backend/internal/models"
	"github.com/atlashq/backend/pkg/response"
	"github.com/atlashq/backend/pkg/utils"
)

// userStoreFake is an in-memory UserStore and SessionStore.
type userStoreFake struct {
	byEmail    map[string]*models.User
	byEmailRaw map[string]*models.User
	sessions   []models.Session
}

func newUserStoreFake() *userStoreFake {
	return &userStoreFake{
		byEmail:    map[string]*models.User{},
		byEmailRaw: map[string]*models.User{},
	}
}

func (f *userStoreFake) Create(_ context.Context, email, emailRaw, passwordHash string) (*models.User, error) {
	if _, exists := f.byEmail[email]; exists {
		return nil, ErrEmailExists
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		EmailRaw:     emailRaw,
		PasswordHash: passwordHash,
		CreatedOn:    time.Now(),
	}
	f.byEmail[email] = u
	f.byEmailRaw[emailRaw] = u
	return u, nil
}

func (f *userStoreFake) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if !MatchesEmailShape(email) {
		return nil, nil
	}
	canonical, ok := CanonicalizeEmail(email)
	if !ok {
		return nil, nil
	}
	return f.byEmail[canonical], nil
}

func (f *userStoreFake) GetByEmailRaw(_ context.Context, emailRaw string) (*models.User, error) {
	return f.byEmailRaw[emailRaw], nil
}

func (f *userStoreFake) ActiveSessions(_ context.Context, userID uuid.UUID) ([]models.Session, error) {
	var list []models.Session
	for _, s := range f.sessions {
		if s.UserID == userID && s.ExpiresOn.After(time.Now()) {
			list = append(list, s)
		}
	}
	return list, nil
}

func (f *userStoreFake) AttachSession(_ context.Context, userID uuid.UUID, session models.Session) error {
	session.UserID = userID
	f.sessions = append(f.sessions, session)
	return nil
}

func newAuthRouter(store *userStoreFake) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := SessionConfig{CookieName: "atlas_session", TTL: time.Hour}
	sessions := NewSessionService(store, cfg)
	h := NewHandler(store, sessions, cfg, false, zap.NewNop())

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	store := newUserStoreFake()
	r := newAuthRouter(store)

	w := postJSON(t, r, "/auth/register", RegisterRequest{Email: "First.Last+news@Example.com", Password: "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	user := store.byEmail["firstlast@example.com"]
	require.NotNil(t, user, "account keyed by canonical email")
	assert.Equal(t, "First.Last+news@Example.com", user.EmailRaw)
	assert.True(t, utils.CheckPassword("hunter22", user.PasswordHash))

	cookie := sessionCookie(t, w, "atlas_session")
	require.NotNil(t, cookie, "registration logs the user in")
	assert.True(t, cookie.HttpOnly)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, store.sessions[0].ID.String(), cookie.Value)
}

func TestRegisterDuplicateCanonicalEmail(t *testing.T) {
	store := newUserStoreFake()
	r := newAuthRouter(store)

	w := postJSON(t, r, "/auth/register", RegisterRequest{Email: "a.b@example.com", Password: "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	// different raw form, same canonical identity
	w = postJSON(t, r, "/auth/register", RegisterRequest{Email: "ab+other@example.com", Password: "hunter22"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ValidationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeEmailExists, body.Errors["email"])
}

func TestRegisterRejectsBadShape(t *testing.T) {
	r := newAuthRouter(newUserStoreFake())
	for _, email := range []string{"no-at-sign", "user@example.invalidtld", "a@b@c.com"} {
		w := postJSON(t, r, "/auth/register", RegisterRequest{Email: email, Password: "hunter22"})
		assert.Equal(t, http.StatusBadRequest, w.Code, email)
	}
}

func TestLogin(t *testing.T) {
	store := newUserStoreFake()
	r := newAuthRouter(store)
	postJSON(t, r, "/auth/register", RegisterRequest{Email: "User@Example.com", Password: "hunter22"})

	t.Run("by canonical form of entered email", func(t *testing.T) {
		w := postJSON(t, r, "/auth/login", LoginRequest{Email: "u.s.e.r@example.com", Password: "hunter22"})
		require.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookie(t, w, "atlas_session")
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("by raw form", func(t *testing.T) {
		w := postJSON(t, r, "/auth/login", LoginRequest{Email: "User@Example.com", Password: "hunter22"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(t, r, "/auth/login", LoginRequest{Email: "user@example.com", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookie(t, w, "atlas_session"))
	})

	t.Run("unknown account", func(t *testing.T) {
		w := postJSON(t, r, "/auth/login", LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLoginEachDeviceGetsOwnSession(t *testing.T) {
	store := newUserStoreFake()
	r := newAuthRouter(store)
	postJSON(t, r, "/auth/register", RegisterRequest{Email: "user@example.com", Password: "hunter22"})

	for i := 0; i < 3; i++ {
		w := postJSON(t, r, "/auth/login", LoginRequest{Email: "user@example.com", Password: "hunter22"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Len(t, store.sessions, 4, "register plus three logins, appends never replace")
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newAuthRouter(newUserStoreFake())
	w := postJSON(t, r, "/auth/logout", gin.H{})
	require.Equal(t, http.StatusNoContent, w.Code)
	cookie := sessionCookie(t, w, "atlas_session")
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)
}
