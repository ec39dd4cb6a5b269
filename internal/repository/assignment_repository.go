package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
)

// AssignmentRepository records lecturer-to-course assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.CourseAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_assignments (id, course_id, lecturer_id, assigned_by, assigned_at)
        VALUES (:id, :course_id, :lecturer_id, :assigned_by, :assigned_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// ListByCourse returns the assignments recorded for one course.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseAssignment, error) {
	const query = `SELECT id, course_id, lecturer_id, assigned_by, assigned_at
        FROM course_assignments WHERE course_id = $1 ORDER BY assigned_at DESC`
	var assignments []models.CourseAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
