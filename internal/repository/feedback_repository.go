package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
)

// FeedbackRepository handles persistence of principal lecturer feedback.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create persists a feedback entry on a report.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO feedback (id, report_id, principal_lecturer_id, feedback_text, created_at)
        VALUES (:id, :report_id, :principal_lecturer_id, :feedback_text, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListByReport returns feedback for a report with the author's name,
// newest first.
func (r *FeedbackRepository) ListByReport(ctx context.Context, reportID string) ([]models.FeedbackDetail, error) {
	const query = `SELECT fb.id, fb.report_id, fb.principal_lecturer_id, fb.feedback_text, fb.created_at,
        u.full_name AS principal_lecturer_name
        FROM feedback fb
        JOIN users u ON fb.principal_lecturer_id = u.id
        WHERE fb.report_id = $1
        ORDER BY fb.created_at DESC`
	var entries []models.FeedbackDetail
	if err := r.db.SelectContext(ctx, &entries, query, reportID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}
