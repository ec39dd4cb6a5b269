package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(30) NOT NULL CHECK (role IN ('student', 'lecturer', 'principal_lecturer', 'program_leader')),
		full_name VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS faculties (
		id TEXT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		code VARCHAR(20) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		faculty_id TEXT NOT NULL REFERENCES faculties(id),
		program_leader_id TEXT REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		course_id TEXT NOT NULL REFERENCES courses(id),
		lecturer_id TEXT NOT NULL REFERENCES users(id),
		total_registered_students INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS student_enrollments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES users(id),
		class_id TEXT NOT NULL REFERENCES classes(id),
		enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, class_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		faculty_name VARCHAR(255) NOT NULL,
		class_id TEXT NOT NULL REFERENCES classes(id),
		week_of_reporting VARCHAR(50) NOT NULL,
		date_of_lecture DATE NOT NULL,
		course_name VARCHAR(255) NOT NULL,
		course_code VARCHAR(50) NOT NULL,
		lecturer_name VARCHAR(100) NOT NULL,
		actual_students_present INT NOT NULL,
		total_registered_students INT NOT NULL,
		venue VARCHAR(100) NOT NULL,
		scheduled_time VARCHAR(20) NOT NULL,
		topic_taught TEXT NOT NULL,
		learning_outcomes TEXT NOT NULL,
		lecturer_recommendations TEXT,
		created_by TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id TEXT PRIMARY KEY,
		report_id TEXT NOT NULL REFERENCES reports(id),
		student_id TEXT NOT NULL REFERENCES users(id),
		rating_value INT NOT NULL CHECK (rating_value >= 1 AND rating_value <= 5),
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (report_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		report_id TEXT NOT NULL REFERENCES reports(id),
		principal_lecturer_id TEXT NOT NULL REFERENCES users(id),
		feedback_text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS course_assignments (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id),
		lecturer_id TEXT NOT NULL REFERENCES users(id),
		assigned_by TEXT NOT NULL REFERENCES users(id),
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT REFERENCES users(id),
		action VARCHAR(50) NOT NULL,
		resource VARCHAR(50) NOT NULL,
		resource_id TEXT,
		new_values JSONB,
		ip_address VARCHAR(64),
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`INSERT INTO faculties (id, name) VALUES
		('fac-ict', 'Faculty of Information Communication Technology'),
		('fac-business', 'Faculty of Business'),
		('fac-engineering', 'Faculty of Engineering')
	ON CONFLICT (id) DO NOTHING`,
}

// Bootstrap creates the schema when it does not exist yet and seeds the
// default faculties. Safe to run on every startup.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
