package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, scope policy.Scope) ([]models.ClassDetail, error)
	FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error)
}

// ClassService serves role-scoped class listings.
type ClassService struct {
	classes classRepository
	logger  *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(classes classRepository, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, logger: logger}
}

// List returns the classes visible to the caller. Students see enrolled
// classes, lecturers see classes they teach, leadership roles see all.
func (s *ClassService) List(ctx context.Context, caller *models.UserInfo) ([]models.ClassDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpListClasses, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list classes")
	}
	classes, err := s.classes.List(ctx, decision.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}
