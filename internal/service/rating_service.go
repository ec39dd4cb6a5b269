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

type ratingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) (bool, error)
	ListByReport(ctx context.Context, reportID string) ([]models.RatingDetail, error)
}

type ratingReportRepository interface {
	FindByID(ctx context.Context, id string) (*models.Report, error)
}

type enrollmentChecker interface {
	ExistsForReportClass(ctx context.Context, studentID, reportID string) (bool, error)
}

// RatingService implements student ratings on reports. A student rates a
// report at most once; resubmitting replaces the earlier rating in place.
type RatingService struct {
	ratings     ratingRepository
	reports     ratingReportRepository
	enrollments enrollmentChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRatingService constructs a RatingService instance.
func NewRatingService(ratings ratingRepository, reports ratingReportRepository, enrollments enrollmentChecker, validate *validator.Validate, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RatingService{ratings: ratings, reports: reports, enrollments: enrollments, validator: validate, logger: logger}
}

// Submit records or replaces the caller's rating for a report. All checks
// run before any write: role, payload range, report existence, and the
// caller's enrollment in the report's class.
func (s *RatingService) Submit(ctx context.Context, caller *models.UserInfo, req models.SubmitRatingRequest) (*models.SubmitRatingResponse, error) {
	decision := policy.Decide(caller.Role, policy.OpSubmitRating, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students rate reports")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rating must be between 1 and 5")
	}

	if _, err := s.reports.FindByID(ctx, req.ReportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	enrolled, err := s.enrollments.ExistsForReportClass(ctx, caller.ID, req.ReportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enrolled in the report's class")
	}

	rating := &models.Rating{
		ReportID:    req.ReportID,
		StudentID:   caller.ID,
		RatingValue: req.RatingValue,
		Comment:     req.Comment,
	}
	created, err := s.ratings.Upsert(ctx, rating)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store rating")
	}

	return &models.SubmitRatingResponse{Rating: *rating, Created: created}, nil
}

// ListByReport returns a report's ratings with student names.
func (s *RatingService) ListByReport(ctx context.Context, caller *models.UserInfo, reportID string) ([]models.RatingDetail, error) {
	decision := policy.Decide(caller.Role, policy.OpListRatings, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not list ratings")
	}

	if _, err := s.reports.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	ratings, err := s.ratings.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ratings")
	}
	return ratings, nil
}
