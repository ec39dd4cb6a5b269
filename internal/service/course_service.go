package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, scope policy.Scope) ([]models.CourseDetail, error)
	Summaries(ctx context.Context, programLeaderID string) ([]models.CourseSummary, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
}

type courseFacultyRepository interface {
	List(ctx context.Context) ([]models.Faculty, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

// CourseService implements the course and faculty read paths plus course
// creation by program leaders.
type CourseService struct {
	courses   courseRepository
	faculties courseFacultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses courseRepository, faculties courseFacultyRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, faculties: faculties, validator: validate, logger: logger}
}

// List returns the courses visible to the caller. Principal lecturers see
// only courses led by program leaders in their faculties.
func (s *CourseService) List(ctx context.Context, caller *models.UserInfo) ([]models.CourseDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpListCourses, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list courses")
	}
	courses, err := s.courses.List(ctx, decision.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Summaries returns the caller's courses with class and lecturer counts.
func (s *CourseService) Summaries(ctx context.Context, caller *models.UserInfo) ([]models.CourseSummary, error) {
	decision := policy.Decide(caller.Role, policy.OpListCourses, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list courses")
	}
	summaries, err := s.courses.Summaries(ctx, caller.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course summaries")
	}
	return summaries, nil
}

// ListFaculties returns the faculties reference list. Any authenticated
// role may read it.
func (s *CourseService) ListFaculties(ctx context.Context, caller *models.UserInfo) ([]models.Faculty, error) {
	decision := policy.Decide(caller.Role, policy.OpListFaculties, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list faculties")
	}
	faculties, err := s.faculties.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculties")
	}
	return faculties, nil
}

// Create adds a course under an existing faculty. Course codes are unique
// and the caller becomes the course's program leader.
func (s *CourseService) Create(ctx context.Context, caller *models.UserInfo, req models.CreateCourseRequest) (*models.Course, error) {
	decision := policy.Decide(caller.Role, policy.OpCreateCourse, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders create courses")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if _, err := s.faculties.FindByID(ctx, req.FacultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	taken, err := s.courses.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	course := &models.Course{
		Code:            req.Code,
		Name:            req.Name,
		FacultyID:       req.FacultyID,
		ProgramLeaderID: &caller.ID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	return course, nil
}
