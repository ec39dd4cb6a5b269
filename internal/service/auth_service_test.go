package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/session"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type mockUserRepo struct {
	users   map[string]*models.User
	created []*models.User
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := m.users[username]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-created"
	}
	m.created = append(m.created, user)
	return nil
}

type mockAuditRepo struct {
	logs []*models.AuditLog
}

func (m *mockAuditRepo) Create(_ context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{}}
	audit := &mockAuditRepo{}
	svc := NewAuthService(users, session.NewMemoryRegistry(0), audit, nil, nil, nil)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "thabo",
		Email:    "thabo@luct.ac.ls",
		Password: "secret1",
		Role:     "student",
		FullName: "Thabo M",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	require.Len(t, users.created, 1)
	assert.NotEqual(t, "secret1", users.created[0].PasswordHash)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionRegister, audit.logs[0].Action)
}

func TestAuthServiceRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{users: map[string]*models.User{}}, session.NewMemoryRegistry(0), &mockAuditRepo{}, nil, nil, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "root",
		Email:    "root@luct.ac.ls",
		Password: "secret1",
		Role:     "admin",
		FullName: "Root",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRegisterConflict(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"thabo": {Username: "thabo", Email: "thabo@luct.ac.ls"},
	}}
	svc := NewAuthService(users, session.NewMemoryRegistry(0), &mockAuditRepo{}, nil, nil, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "thabo",
		Email:    "other@luct.ac.ls",
		Password: "secret1",
		Role:     "student",
		FullName: "Thabo M",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginMintsSession(t *testing.T) {
	registry := session.NewMemoryRegistry(0)
	users := &mockUserRepo{users: map[string]*models.User{
		"thabo": {
			ID:           "u1",
			Username:     "thabo",
			Email:        "thabo@luct.ac.ls",
			PasswordHash: hashOf(t, "secret1"),
			Role:         models.RoleStudent,
			FullName:     "Thabo M",
		},
	}}
	svc := NewAuthService(users, registry, &mockAuditRepo{}, nil, nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "thabo", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	snapshot, err := registry.Lookup(context.Background(), res.Token)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "u1", snapshot.ID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"thabo": {ID: "u1", Username: "thabo", PasswordHash: hashOf(t, "secret1"), Role: models.RoleStudent},
	}}
	svc := NewAuthService(users, session.NewMemoryRegistry(0), &mockAuditRepo{}, nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "thabo", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUserSameError(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{users: map[string]*models.User{}}, session.NewMemoryRegistry(0), &mockAuditRepo{}, nil, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogoutRemovesToken(t *testing.T) {
	registry := session.NewMemoryRegistry(0)
	token, err := registry.Create(context.Background(), models.UserInfo{ID: "u1"})
	require.NoError(t, err)

	svc := NewAuthService(&mockUserRepo{users: map[string]*models.User{}}, registry, &mockAuditRepo{}, nil, nil, nil)

	require.NoError(t, svc.Logout(context.Background(), token, &models.UserInfo{ID: "u1"}))

	snapshot, err := registry.Lookup(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	// Second logout with the same token still succeeds.
	require.NoError(t, svc.Logout(context.Background(), token, &models.UserInfo{ID: "u1"}))
}
