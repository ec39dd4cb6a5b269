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

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.CourseAssignment) error
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseAssignment, error)
}

type assignmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type assignmentUserRepository interface {
	FindInfoByID(ctx context.Context, id string) (*models.UserInfo, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.UserInfo, error)
}

// AssignmentService lets program leaders hand courses to lecturers and
// browse the lecturer roster.
type AssignmentService struct {
	assignments assignmentRepository
	courses     assignmentCourseRepository
	users       assignmentUserRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments assignmentRepository, courses assignmentCourseRepository, users assignmentUserRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{assignments: assignments, courses: courses, users: users, validator: validate, logger: logger}
}

// Assign records the grant of a course to a lecturer. The target user
// must exist and actually hold the lecturer role.
func (s *AssignmentService) Assign(ctx context.Context, caller *models.UserInfo, req models.AssignLecturerRequest) (*models.CourseAssignment, error) {
	decision := policy.Decide(caller.Role, policy.OpAssignLecturer, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders assign lecturers")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	lecturer, err := s.users.FindInfoByID(ctx, req.LecturerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	if lecturer.Role != models.RoleLecturer {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignee is not a lecturer")
	}

	assignment := &models.CourseAssignment{
		CourseID:   req.CourseID,
		LecturerID: req.LecturerID,
		AssignedBy: caller.ID,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store assignment")
	}

	return assignment, nil
}

// ListLecturers returns the lecturer roster for the assignment picker.
func (s *AssignmentService) ListLecturers(ctx context.Context, caller *models.UserInfo) ([]models.UserInfo, error) {
	decision := policy.Decide(caller.Role, policy.OpListLecturers, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only program leaders list lecturers")
	}
	lecturers, err := s.users.ListByRole(ctx, models.RoleLecturer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	return lecturers, nil
}
