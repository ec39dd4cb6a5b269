package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/middleware"
	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/service"
	"github.com/molisezx/luct-reporting/internal/session"
)

// memoryUsers backs both the auth service and the session middleware in
// these tests.
type memoryUsers struct {
	byUsername map[string]*models.User
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := m.byUsername[username]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryUsers) FindInfoByID(_ context.Context, id string) (*models.UserInfo, error) {
	for _, user := range m.byUsername {
		if user.ID == id {
			return &models.UserInfo{ID: user.ID, Username: user.Username, Email: user.Email, FullName: user.FullName, Role: user.Role}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range m.byUsername {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-" + user.Username
	}
	m.byUsername[user.Username] = user
	return nil
}

type noopAudit struct{}

func (noopAudit) Create(context.Context, *models.AuditLog) error { return nil }

func buildAuthRouter(t *testing.T) (*gin.Engine, *memoryUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memoryUsers{byUsername: map[string]*models.User{}}
	registry := session.NewMemoryRegistry(0)
	svc := service.NewAuthService(users, registry, noopAudit{}, nil, nil, nil)
	authHandler := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	protected := r.Group("")
	protected.Use(middleware.SessionAuth(registry, users, nil))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)

	return r, users
}

func postJSON(r *gin.Engine, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthSessionLifecycle(t *testing.T) {
	r, _ := buildAuthRouter(t)

	w := postJSON(r, "/auth/register", models.RegisterRequest{
		Username: "thabo",
		Email:    "thabo@luct.ac.ls",
		Password: "secret1",
		Role:     "student",
		FullName: "Thabo M",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/auth/login", models.LoginRequest{Username: "thabo", Password: "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	token := envelope.Data.Token
	require.NotEmpty(t, token)
	assert.Equal(t, models.RoleStudent, envelope.Data.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), envelope.Data.User.ID)

	w = postJSON(r, "/auth/logout", nil, map[string]string{"Authorization": token})
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	r, _ := buildAuthRouter(t)

	w := postJSON(r, "/auth/login", models.LoginRequest{Username: "ghost", Password: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r, _ := buildAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}
