package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type mockReportRepo struct {
	listScope   *policy.Scope
	searchScope *policy.Scope
	searchTerm  string
	created     []*models.Report
	listResult  []models.ReportDetail
}

func (m *mockReportRepo) List(_ context.Context, scope policy.Scope) ([]models.ReportDetail, error) {
	m.listScope = &scope
	return m.listResult, nil
}

func (m *mockReportRepo) Search(_ context.Context, scope policy.Scope, term string) ([]models.ReportDetail, error) {
	m.searchScope = &scope
	m.searchTerm = term
	return nil, nil
}

func (m *mockReportRepo) Monitoring(_ context.Context, scope policy.Scope) ([]models.MonitoringRow, error) {
	m.listScope = &scope
	return nil, nil
}

func (m *mockReportRepo) FindByID(_ context.Context, id string) (*models.Report, error) {
	return nil, sql.ErrNoRows
}

func (m *mockReportRepo) Create(_ context.Context, report *models.Report) error {
	report.ID = "r-created"
	m.created = append(m.created, report)
	return nil
}

type mockClassFinder struct {
	classes map[string]*models.ClassDetail
}

func (m *mockClassFinder) FindDetailByID(_ context.Context, id string) (*models.ClassDetail, error) {
	if class, ok := m.classes[id]; ok {
		cp := *class
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func newReportFixture() (*ReportService, *mockReportRepo) {
	reports := &mockReportRepo{}
	classes := &mockClassFinder{classes: map[string]*models.ClassDetail{
		"cls1": {
			Class: models.Class{
				ID:                      "cls1",
				Name:                    "BSCITY2S1",
				CourseID:                "c1",
				LecturerID:              "lect1",
				TotalRegisteredStudents: 30,
			},
			CourseName:  "Web Application Development",
			CourseCode:  "DIWA2110",
			FacultyName: "ICT",
		},
	}}
	return NewReportService(reports, classes, nil, nil), reports
}

func lecturer(id string) *models.UserInfo {
	return &models.UserInfo{ID: id, Role: models.RoleLecturer, FullName: "Lecturer One"}
}

func validReportRequest() models.CreateReportRequest {
	return models.CreateReportRequest{
		ClassID:               "cls1",
		WeekOfReporting:       "Week 6",
		DateOfLecture:         "2026-08-24",
		ActualStudentsPresent: 25,
		Venue:                 "Room 101",
		ScheduledTime:         "08:30 - 10:30",
		TopicTaught:           "React components",
		LearningOutcomes:      "Students can build components",
	}
}

func TestReportServiceCreateSnapshotsNames(t *testing.T) {
	svc, reports := newReportFixture()

	report, err := svc.Create(context.Background(), lecturer("lect1"), validReportRequest())
	require.NoError(t, err)

	assert.Equal(t, "ICT", report.FacultyName)
	assert.Equal(t, "Web Application Development", report.CourseName)
	assert.Equal(t, "DIWA2110", report.CourseCode)
	assert.Equal(t, "Lecturer One", report.LecturerName)
	assert.Equal(t, 30, report.TotalRegisteredStudents)
	assert.Equal(t, "lect1", report.CreatedBy)
	require.Len(t, reports.created, 1)
}

func TestReportServiceCreateRejectsNonLecturers(t *testing.T) {
	svc, reports := newReportFixture()

	for _, role := range []models.UserRole{models.RoleStudent, models.RolePrincipalLecturer, models.RoleProgramLeader} {
		_, err := svc.Create(context.Background(), &models.UserInfo{ID: "x", Role: role}, validReportRequest())
		require.Error(t, err, "role %s", role)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, reports.created)
}

func TestReportServiceCreateRejectsBadDate(t *testing.T) {
	svc, _ := newReportFixture()

	req := validReportRequest()
	req.DateOfLecture = "24/08/2026"
	_, err := svc.Create(context.Background(), lecturer("lect1"), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCreateRejectsAttendanceAboveRegistered(t *testing.T) {
	svc, _ := newReportFixture()

	req := validReportRequest()
	req.ActualStudentsPresent = 31
	_, err := svc.Create(context.Background(), lecturer("lect1"), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCreateUnknownClass(t *testing.T) {
	svc, _ := newReportFixture()

	req := validReportRequest()
	req.ClassID = "missing"
	_, err := svc.Create(context.Background(), lecturer("lect1"), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceListDerivesScopeFromRole(t *testing.T) {
	svc, reports := newReportFixture()

	_, err := svc.List(context.Background(), &models.UserInfo{ID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotNil(t, reports.listScope)
	assert.Equal(t, policy.ScopeEnrolled, reports.listScope.Kind)
	assert.Equal(t, "s1", reports.listScope.UserID)

	_, err = svc.List(context.Background(), &models.UserInfo{ID: "pl1", Role: models.RoleProgramLeader})
	require.NoError(t, err)
	assert.Equal(t, policy.ScopeAll, reports.listScope.Kind)
}

func TestReportServiceSearchBlankTermListsScoped(t *testing.T) {
	svc, reports := newReportFixture()

	_, err := svc.Search(context.Background(), lecturer("lect1"), "   ")
	require.NoError(t, err)
	require.NotNil(t, reports.listScope, "blank term should fall back to the scoped list")
	assert.Nil(t, reports.searchScope)

	_, err = svc.Search(context.Background(), lecturer("lect1"), "react")
	require.NoError(t, err)
	require.NotNil(t, reports.searchScope)
	assert.Equal(t, policy.ScopeOwnReports, reports.searchScope.Kind)
	assert.Equal(t, "react", reports.searchTerm)
}

func TestReportServiceListDeniesUnknownRole(t *testing.T) {
	svc, _ := newReportFixture()

	_, err := svc.List(context.Background(), &models.UserInfo{ID: "x", Role: models.UserRole("admin")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
