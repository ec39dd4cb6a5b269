package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses narrowed by the caller's scope.
func (r *CourseRepository) List(ctx context.Context, scope policy.Scope) ([]models.CourseDetail, error) {
	query := `SELECT c.id, c.code, c.name, c.faculty_id, c.program_leader_id, c.created_at,
        f.name AS faculty_name, u.full_name AS program_leader_name
        FROM courses c
        JOIN faculties f ON c.faculty_id = f.id
        LEFT JOIN users u ON c.program_leader_id = u.id`
	var args []interface{}

	if scope.Kind == policy.ScopeLedCourses {
		query += ` WHERE c.program_leader_id = $1`
		args = append(args, scope.UserID)
	}
	query += ` ORDER BY c.code ASC`

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Summaries returns the courses a program leader owns with class and
// lecturer counts, backing the principal lecturer stream view.
func (r *CourseRepository) Summaries(ctx context.Context, programLeaderID string) ([]models.CourseSummary, error) {
	const query = `SELECT c.id, c.code, c.name, c.faculty_id, c.program_leader_id, c.created_at,
        f.name AS faculty_name, u.full_name AS program_leader_name,
        COUNT(DISTINCT cls.id) AS class_count,
        COUNT(DISTINCT cls.lecturer_id) AS lecturer_count
        FROM courses c
        JOIN faculties f ON c.faculty_id = f.id
        LEFT JOIN users u ON c.program_leader_id = u.id
        LEFT JOIN classes cls ON cls.course_id = c.id
        WHERE c.program_leader_id = $1
        GROUP BY c.id, c.code, c.name, c.faculty_id, c.program_leader_id, c.created_at, f.name, u.full_name
        ORDER BY c.code ASC`
	var summaries []models.CourseSummary
	if err := r.db.SelectContext(ctx, &summaries, query, programLeaderID); err != nil {
		return nil, fmt.Errorf("list course summaries: %w", err)
	}
	return summaries, nil
}

// FindByID returns one course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, faculty_id, program_leader_id, created_at FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// ExistsByCode reports whether a course code is already taken.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM courses WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO courses (id, code, name, faculty_id, program_leader_id, created_at) VALUES (:id, :code, :name, :faculty_id, :program_leader_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}
