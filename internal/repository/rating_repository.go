package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
)

// RatingRepository handles persistence of student report ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert inserts the student's rating for a report, or replaces the value
// and comment when one already exists. It returns true when a new row was
// created and false when an existing rating was overwritten. On the replace
// path the stored row keeps its original id and created_at, so both are
// copied back onto the rating before returning.
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) (bool, error) {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ratings (id, report_id, student_id, rating_value, comment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (report_id, student_id)
        DO UPDATE SET rating_value = EXCLUDED.rating_value, comment = EXCLUDED.comment
        RETURNING id, created_at, (xmax = 0) AS inserted`
	var row struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
		Inserted  bool      `db:"inserted"`
	}
	err := r.db.GetContext(ctx, &row, query,
		rating.ID, rating.ReportID, rating.StudentID, rating.RatingValue, rating.Comment, rating.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("upsert rating: %w", err)
	}
	rating.ID = row.ID
	rating.CreatedAt = row.CreatedAt
	return row.Inserted, nil
}

// ListByReport returns the ratings for a report with the rating student's
// name, newest first.
func (r *RatingRepository) ListByReport(ctx context.Context, reportID string) ([]models.RatingDetail, error) {
	const query = `SELECT rt.id, rt.report_id, rt.student_id, rt.rating_value, rt.comment, rt.created_at,
        u.full_name AS student_name
        FROM ratings rt
        JOIN users u ON rt.student_id = u.id
        WHERE rt.report_id = $1
        ORDER BY rt.created_at DESC`
	var ratings []models.RatingDetail
	if err := r.db.SelectContext(ctx, &ratings, query, reportID); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}
