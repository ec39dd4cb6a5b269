package models

import "time"

// Faculty is a top-level academic unit.
type Faculty struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Course belongs to a faculty and is optionally owned by a program leader.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	FacultyID       string    `db:"faculty_id" json:"faculty_id"`
	ProgramLeaderID *string   `db:"program_leader_id" json:"program_leader_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CourseDetail enriches a course with joined display names.
type CourseDetail struct {
	Course
	FacultyName       string  `db:"faculty_name" json:"faculty_name"`
	ProgramLeaderName *string `db:"program_leader_name" json:"program_leader_name,omitempty"`
}

// CourseSummary adds aggregate counts for the principal lecturer view.
type CourseSummary struct {
	CourseDetail
	ClassCount    int `db:"class_count" json:"class_count"`
	LecturerCount int `db:"lecturer_count" json:"lecturer_count"`
}

// Class belongs to exactly one course and is taught by exactly one
// lecturer. The registered-students count is denormalized on purpose.
type Class struct {
	ID                      string    `db:"id" json:"id"`
	Name                    string    `db:"name" json:"name"`
	CourseID                string    `db:"course_id" json:"course_id"`
	LecturerID              string    `db:"lecturer_id" json:"lecturer_id"`
	TotalRegisteredStudents int       `db:"total_registered_students" json:"total_registered_students"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}

// ClassDetail enriches a class with course and faculty names.
type ClassDetail struct {
	Class
	CourseName  string `db:"course_name" json:"course_name"`
	CourseCode  string `db:"course_code" json:"course_code"`
	FacultyName string `db:"faculty_name" json:"faculty_name"`
}

// Enrollment joins a student to a class. (student_id, class_id) is unique.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// CourseAssignment records a program leader granting a course to a
// lecturer. Purely an audit trail; never consulted by the query policy.
type CourseAssignment struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	LecturerID string    `db:"lecturer_id" json:"lecturer_id"`
	AssignedBy string    `db:"assigned_by" json:"assigned_by"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}
