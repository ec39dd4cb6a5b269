package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/session"
)

type stubVerifier struct {
	missing bool
}

func (s *stubVerifier) FindInfoByID(_ context.Context, id string) (*models.UserInfo, error) {
	if s.missing {
		return nil, sql.ErrNoRows
	}
	return &models.UserInfo{ID: id}, nil
}

func newSessionTestRouter(registry session.Registry, verifier *stubVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(registry, verifier, nil))
	r.GET("/protected", func(c *gin.Context) {
		caller, _ := c.Get(ContextUserKey)
		snapshot := caller.(*models.UserInfo)
		c.JSON(http.StatusOK, gin.H{"id": snapshot.ID})
	})
	return r
}

func TestSessionAuthMissingToken(t *testing.T) {
	r := newSessionTestRouter(session.NewMemoryRegistry(0), &stubVerifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
}

func TestSessionAuthUnknownToken(t *testing.T) {
	r := newSessionTestRouter(session.NewMemoryRegistry(0), &stubVerifier{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "not-a-real-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SESSION")
}

func TestSessionAuthAcceptsBothHeaders(t *testing.T) {
	registry := session.NewMemoryRegistry(0)
	token, err := registry.Create(context.Background(), models.UserInfo{ID: "u1"})
	require.NoError(t, err)

	r := newSessionTestRouter(registry, &stubVerifier{})

	for _, set := range []func(*http.Request){
		func(req *http.Request) { req.Header.Set("Authorization", token) },
		func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
		func(req *http.Request) { req.Header.Set("Session-Id", token) },
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		set(req)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u1")
	}
}

func TestSessionAuthPurgesStaleToken(t *testing.T) {
	registry := session.NewMemoryRegistry(0)
	token, err := registry.Create(context.Background(), models.UserInfo{ID: "gone"})
	require.NoError(t, err)

	r := newSessionTestRouter(registry, &stubVerifier{missing: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	snapshot, err := registry.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, snapshot, "stale token should be purged on first failed use")
}
