package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
)

// ClassRepository handles persistence of classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes narrowed by the caller's scope.
func (r *ClassRepository) List(ctx context.Context, scope policy.Scope) ([]models.ClassDetail, error) {
	query := `SELECT c.id, c.name, c.course_id, c.lecturer_id, c.total_registered_students, c.created_at,
        co.name AS course_name, co.code AS course_code, f.name AS faculty_name
        FROM classes c
        JOIN courses co ON c.course_id = co.id
        JOIN faculties f ON co.faculty_id = f.id`
	var args []interface{}

	switch scope.Kind {
	case policy.ScopeTaught:
		query += ` WHERE c.lecturer_id = $1`
		args = append(args, scope.UserID)
	case policy.ScopeEnrolled:
		query += ` JOIN student_enrollments se ON se.class_id = c.id WHERE se.student_id = $1`
		args = append(args, scope.UserID)
	}
	query += ` ORDER BY c.name ASC`

	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindDetailByID returns one class with its course and faculty names.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	const query = `SELECT c.id, c.name, c.course_id, c.lecturer_id, c.total_registered_students, c.created_at,
        co.name AS course_name, co.code AS course_code, f.name AS faculty_name
        FROM classes c
        JOIN courses co ON c.course_id = co.id
        JOIN faculties f ON co.faculty_id = f.id
        WHERE c.id = $1`
	var detail models.ClassDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &detail, nil
}
