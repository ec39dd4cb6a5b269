package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
)

// EnrollmentRepository reads student enrollments. Enrollment rows are
// written out-of-band; only lookups live here.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ExistsForReportClass reports whether the student is enrolled in the
// class the report belongs to.
func (r *EnrollmentRepository) ExistsForReportClass(ctx context.Context, studentID, reportID string) (bool, error) {
	const query = `SELECT 1 FROM student_enrollments se
        JOIN reports rp ON rp.class_id = se.class_id
        WHERE se.student_id = $1 AND rp.id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, reportID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment for report: %w", err)
	}
	return true, nil
}

// ListByStudent returns all enrollments for one student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	const query = `SELECT id, student_id, class_id, enrolled_at FROM student_enrollments WHERE student_id = $1 ORDER BY enrolled_at DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}
