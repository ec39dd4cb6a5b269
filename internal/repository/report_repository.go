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

// ReportRepository handles persistence of lecture reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// reportScope translates a policy scope into join and where fragments for
// queries rooted at the reports table (aliased r).
func reportScope(scope policy.Scope) (join, where string, args []interface{}) {
	switch scope.Kind {
	case policy.ScopeOwnReports:
		return "", "r.created_by = $1", []interface{}{scope.UserID}
	case policy.ScopeEnrolled:
		return " JOIN student_enrollments se ON se.class_id = r.class_id", "se.student_id = $1", []interface{}{scope.UserID}
	case policy.ScopeLedFaculties:
		return "", "r.faculty_name IN (SELECT f.name FROM faculties f JOIN courses co ON co.faculty_id = f.id WHERE co.program_leader_id = $1)", []interface{}{scope.UserID}
	}
	return "", "", nil
}

const reportColumns = `r.id, r.faculty_name, r.class_id, r.week_of_reporting, r.date_of_lecture,
        r.course_name, r.course_code, r.lecturer_name, r.actual_students_present,
        r.total_registered_students, r.venue, r.scheduled_time, r.topic_taught,
        r.learning_outcomes, r.lecturer_recommendations, r.created_by, r.created_at`

// List returns reports narrowed by the caller's scope, newest first.
func (r *ReportRepository) List(ctx context.Context, scope policy.Scope) ([]models.ReportDetail, error) {
	join, where, args := reportScope(scope)
	query := fmt.Sprintf(`SELECT %s, c.name AS class_name
        FROM reports r
        JOIN classes c ON r.class_id = c.id%s`, reportColumns, join)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY r.created_at DESC"

	var reports []models.ReportDetail
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Search returns scoped reports matching the term against the snapshotted
// course, code, topic, or lecturer name fields.
func (r *ReportRepository) Search(ctx context.Context, scope policy.Scope, term string) ([]models.ReportDetail, error) {
	join, where, args := reportScope(scope)
	pattern := "%" + term + "%"
	// Scope args come first; shift the search placeholder accordingly.
	n := len(args) + 1
	search := fmt.Sprintf(`(r.course_name ILIKE $%d OR r.course_code ILIKE $%d OR r.topic_taught ILIKE $%d OR r.lecturer_name ILIKE $%d)`, n, n, n, n)
	args = append(args, pattern)

	query := fmt.Sprintf(`SELECT %s, c.name AS class_name
        FROM reports r
        JOIN classes c ON r.class_id = c.id%s WHERE %s`, reportColumns, join, search)
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY r.created_at DESC"

	var reports []models.ReportDetail
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("search reports: %w", err)
	}
	return reports, nil
}

// Monitoring returns scoped reports joined with rating aggregates and the
// course's current name alongside the submission-time snapshot.
func (r *ReportRepository) Monitoring(ctx context.Context, scope policy.Scope) ([]models.MonitoringRow, error) {
	join, where, args := reportScope(scope)
	query := fmt.Sprintf(`SELECT %s, c.name AS class_name, co.name AS current_course_name,
        AVG(rat.rating_value) AS average_rating, COUNT(rat.id) AS rating_count
        FROM reports r
        JOIN classes c ON r.class_id = c.id
        JOIN courses co ON c.course_id = co.id
        LEFT JOIN ratings rat ON rat.report_id = r.id%s`, reportColumns, join)
	if where != "" {
		query += " WHERE " + where
	}
	query += ` GROUP BY r.id, r.faculty_name, r.class_id, r.week_of_reporting, r.date_of_lecture,
        r.course_name, r.course_code, r.lecturer_name, r.actual_students_present,
        r.total_registered_students, r.venue, r.scheduled_time, r.topic_taught,
        r.learning_outcomes, r.lecturer_recommendations, r.created_by, r.created_at, c.name, co.name
        ORDER BY r.created_at DESC`

	var rows []models.MonitoringRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("monitor reports: %w", err)
	}
	return rows, nil
}

// FindByID returns one report.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports r WHERE r.id = $1 LIMIT 1`, reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &report, nil
}

// Create persists a new report with its submission-time name snapshots.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reports (id, faculty_name, class_id, week_of_reporting, date_of_lecture,
        course_name, course_code, lecturer_name, actual_students_present, total_registered_students,
        venue, scheduled_time, topic_taught, learning_outcomes, lecturer_recommendations, created_by, created_at)
        VALUES (:id, :faculty_name, :class_id, :week_of_reporting, :date_of_lecture,
        :course_name, :course_code, :lecturer_name, :actual_students_present, :total_registered_students,
        :venue, :scheduled_time, :topic_taught, :learning_outcomes, :lecturer_recommendations, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}
