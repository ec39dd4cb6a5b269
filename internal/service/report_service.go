package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type reportRepository interface {
	List(ctx context.Context, scope policy.Scope) ([]models.ReportDetail, error)
	Search(ctx context.Context, scope policy.Scope, term string) ([]models.ReportDetail, error)
	Monitoring(ctx context.Context, scope policy.Scope) ([]models.MonitoringRow, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
}

type reportClassRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

// ReportService implements the report workflows. Every read derives its
// row filter from the query policy before the repository is touched.
type ReportService struct {
	reports   reportRepository
	classes   reportClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(reports reportRepository, classes reportClassRepository, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReportService{reports: reports, classes: classes, validator: validate, logger: logger}
}

// List returns the reports visible to the caller under the list policy.
func (s *ReportService) List(ctx context.Context, caller *models.UserInfo) ([]models.ReportDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpListReports, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list reports")
	}
	reports, err := s.reports.List(ctx, decision.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// Search returns scoped reports matching the term. A blank term degrades
// to a plain scoped list.
func (s *ReportService) Search(ctx context.Context, caller *models.UserInfo, term string) ([]models.ReportDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpSearchReports, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not search reports")
	}

	term = strings.TrimSpace(term)
	if term == "" {
		reports, err := s.reports.List(ctx, decision.Scope)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
		}
		return reports, nil
	}

	reports, err := s.reports.Search(ctx, decision.Scope, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search reports")
	}
	return reports, nil
}

// Monitoring returns scoped reports with rating aggregates and the
// current course name next to the submission-time snapshot.
func (s *ReportService) Monitoring(ctx context.Context, caller *models.UserInfo) ([]models.MonitoringRow, error) {
	decision := policy.Decide(caller.Role, policy.OpMonitorReports, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not monitor reports")
	}
	rows, err := s.reports.Monitoring(ctx, decision.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load monitoring data")
	}
	return rows, nil
}

// Create records a lecture report. Faculty, course, and lecturer names
// plus the registered-students count are snapshotted from the class and
// the caller, never taken from the request body.
func (s *ReportService) Create(ctx context.Context, caller *models.UserInfo, req models.CreateReportRequest) (*models.Report, error) {
	decision := policy.Decide(caller.Role, policy.OpCreateReport, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only lecturers submit reports")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}

	date, err := time.Parse("2006-01-02", req.DateOfLecture)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_of_lecture must be YYYY-MM-DD")
	}

	class, err := s.classes.FindDetailByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	if req.ActualStudentsPresent > class.TotalRegisteredStudents {
		return nil, appErrors.Clone(appErrors.ErrValidation, "actual attendance exceeds registered students")
	}

	report := &models.Report{
		FacultyName:             class.FacultyName,
		ClassID:                 class.ID,
		WeekOfReporting:         req.WeekOfReporting,
		DateOfLecture:           date,
		CourseName:              class.CourseName,
		CourseCode:              class.CourseCode,
		LecturerName:            caller.FullName,
		ActualStudentsPresent:   req.ActualStudentsPresent,
		TotalRegisteredStudents: class.TotalRegisteredStudents,
		Venue:                   req.Venue,
		ScheduledTime:           req.ScheduledTime,
		TopicTaught:             req.TopicTaught,
		LearningOutcomes:        req.LearningOutcomes,
		LecturerRecommendations: req.LecturerRecommendations,
		CreatedBy:               caller.ID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}

	return report, nil
}
