package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type mockCourseRepo struct {
	listScope *policy.Scope
	codes     map[string]bool
	created   []*models.Course
}

func (m *mockCourseRepo) List(_ context.Context, scope policy.Scope) ([]models.CourseDetail, error) {
	m.listScope = &scope
	return nil, nil
}

func (m *mockCourseRepo) Summaries(_ context.Context, programLeaderID string) ([]models.CourseSummary, error) {
	return nil, nil
}

func (m *mockCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	return m.codes[code], nil
}

func (m *mockCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = "c-created"
	m.created = append(m.created, course)
	return nil
}

type mockFacultyRepo struct {
	faculties map[string]*models.Faculty
}

func (m *mockFacultyRepo) List(_ context.Context) ([]models.Faculty, error) {
	out := make([]models.Faculty, 0, len(m.faculties))
	for _, f := range m.faculties {
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFacultyRepo) FindByID(_ context.Context, id string) (*models.Faculty, error) {
	if f, ok := m.faculties[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func newCourseFixture() (*CourseService, *mockCourseRepo) {
	courses := &mockCourseRepo{codes: map[string]bool{"DIWA2110": true}}
	faculties := &mockFacultyRepo{faculties: map[string]*models.Faculty{
		"fac-ict": {ID: "fac-ict", Name: "ICT", CreatedAt: time.Now()},
	}}
	return NewCourseService(courses, faculties, nil, nil), courses
}

func programLeader(id string) *models.UserInfo {
	return &models.UserInfo{ID: id, Role: models.RoleProgramLeader}
}

func TestCourseServiceCreate(t *testing.T) {
	svc, courses := newCourseFixture()

	course, err := svc.Create(context.Background(), programLeader("pl1"), models.CreateCourseRequest{
		Code:      "DIWA2115",
		Name:      "Advanced Web Apps",
		FacultyID: "fac-ict",
	})
	require.NoError(t, err)
	require.Len(t, courses.created, 1)
	require.NotNil(t, course.ProgramLeaderID)
	assert.Equal(t, "pl1", *course.ProgramLeaderID, "creator becomes leader")
}

func TestCourseServiceCreateIgnoresClientLeaderField(t *testing.T) {
	svc, courses := newCourseFixture()

	var req models.CreateCourseRequest
	payload := `{"code":"NEW201","name":"New","faculty_id":"fac-ict","program_leader_id":"pl-somebody-else"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	course, err := svc.Create(context.Background(), programLeader("pl-caller"), req)
	require.NoError(t, err)
	require.Len(t, courses.created, 1)
	require.NotNil(t, course.ProgramLeaderID)
	assert.Equal(t, "pl-caller", *course.ProgramLeaderID)
}

func TestCourseServiceCreateDeniesOtherRoles(t *testing.T) {
	svc, courses := newCourseFixture()

	for _, role := range []models.UserRole{models.RoleStudent, models.RoleLecturer, models.RolePrincipalLecturer} {
		_, err := svc.Create(context.Background(), &models.UserInfo{ID: "x", Role: role}, models.CreateCourseRequest{
			Code: "NEW101", Name: "New", FacultyID: "fac-ict",
		})
		require.Error(t, err, "role %s", role)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, courses.created)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	svc, _ := newCourseFixture()

	_, err := svc.Create(context.Background(), programLeader("pl1"), models.CreateCourseRequest{
		Code: "DIWA2110", Name: "Web Apps", FacultyID: "fac-ict",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreateUnknownFaculty(t *testing.T) {
	svc, _ := newCourseFixture()

	_, err := svc.Create(context.Background(), programLeader("pl1"), models.CreateCourseRequest{
		Code: "NEW101", Name: "New", FacultyID: "fac-missing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListScopes(t *testing.T) {
	svc, courses := newCourseFixture()

	_, err := svc.List(context.Background(), &models.UserInfo{ID: "prl1", Role: models.RolePrincipalLecturer})
	require.NoError(t, err)
	require.NotNil(t, courses.listScope)
	assert.Equal(t, policy.ScopeLedCourses, courses.listScope.Kind)

	_, err = svc.List(context.Background(), &models.UserInfo{ID: "s1", Role: models.RoleStudent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListFacultiesAnyRole(t *testing.T) {
	svc, _ := newCourseFixture()

	faculties, err := svc.ListFaculties(context.Background(), &models.UserInfo{ID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Len(t, faculties, 1)
}
