package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "full_name", "created_at"}).
		AddRow("u1", "thabo", "thabo@luct.ac.ls", "$2a$10$hash", "student", "Thabo M", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password_hash, role, full_name, created_at FROM users WHERE username = $1 LIMIT 1")).
		WithArgs("thabo").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "thabo")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id, username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryExistsByUsernameOrEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE username = $1 OR email = $2 LIMIT 1")).
		WithArgs("thabo", "thabo@luct.ac.ls").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "thabo", "thabo@luct.ac.ls")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM users").
		WithArgs("new", "new@luct.ac.ls").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsByUsernameOrEmail(context.Background(), "new", "new@luct.ac.ls")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "thabo", "thabo@luct.ac.ls", "$2a$10$hash", "student", "Thabo M", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		Username:     "thabo",
		Email:        "thabo@luct.ac.ls",
		PasswordHash: "$2a$10$hash",
		Role:         models.RoleStudent,
		FullName:     "Thabo M",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListByRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "role"}).
		AddRow("l1", "lect1", "l1@luct.ac.ls", "Lecturer One", "lecturer").
		AddRow("l2", "lect2", "l2@luct.ac.ls", "Lecturer Two", "lecturer")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, full_name, role FROM users WHERE role = $1 ORDER BY full_name ASC")).
		WithArgs(models.RoleLecturer).
		WillReturnRows(rows)

	lecturers, err := repo.ListByRole(context.Background(), models.RoleLecturer)
	require.NoError(t, err)
	assert.Len(t, lecturers, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
