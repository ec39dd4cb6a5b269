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

type feedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByReport(ctx context.Context, reportID string) ([]models.FeedbackDetail, error)
}

// FeedbackService implements principal lecturer feedback on reports.
// A report can accumulate any number of feedback entries.
type FeedbackService struct {
	feedback  feedbackRepository
	reports   ratingReportRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService instance.
func NewFeedbackService(feedback feedbackRepository, reports ratingReportRepository, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FeedbackService{feedback: feedback, reports: reports, validator: validate, logger: logger}
}

// Submit records a feedback entry against an existing report.
func (s *FeedbackService) Submit(ctx context.Context, caller *models.UserInfo, req models.SubmitFeedbackRequest) (*models.Feedback, error) {
	decision := policy.Decide(caller.Role, policy.OpSubmitFeedback, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only principal lecturers submit feedback")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if _, err := s.reports.FindByID(ctx, req.ReportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	feedback := &models.Feedback{
		ReportID:            req.ReportID,
		PrincipalLecturerID: caller.ID,
		FeedbackText:        req.FeedbackText,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	return feedback, nil
}

// ListByReport returns a report's feedback entries with author names.
func (s *FeedbackService) ListByReport(ctx context.Context, caller *models.UserInfo, reportID string) ([]models.FeedbackDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpListFeedback, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list feedback")
	}

	if _, err := s.reports.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	entries, err := s.feedback.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return entries, nil
}
