package models

import "time"

// Report is one lecture-session record. Faculty, course, and lecturer
// names are captured at submission time and intentionally never re-joined,
// so reports keep showing the names as they were when submitted.
type Report struct {
	ID                       string    `db:"id" json:"id"`
	FacultyName              string    `db:"faculty_name" json:"faculty_name"`
	ClassID                  string    `db:"class_id" json:"class_id"`
	WeekOfReporting          string    `db:"week_of_reporting" json:"week_of_reporting"`
	DateOfLecture            time.Time `db:"date_of_lecture" json:"date_of_lecture"`
	CourseName               string    `db:"course_name" json:"course_name"`
	CourseCode               string    `db:"course_code" json:"course_code"`
	LecturerName             string    `db:"lecturer_name" json:"lecturer_name"`
	ActualStudentsPresent    int       `db:"actual_students_present" json:"actual_students_present"`
	TotalRegisteredStudents  int       `db:"total_registered_students" json:"total_registered_students"`
	Venue                    string    `db:"venue" json:"venue"`
	ScheduledTime            string    `db:"scheduled_time" json:"scheduled_time"`
	TopicTaught              string    `db:"topic_taught" json:"topic_taught"`
	LearningOutcomes         string    `db:"learning_outcomes" json:"learning_outcomes"`
	LecturerRecommendations  *string   `db:"lecturer_recommendations" json:"lecturer_recommendations,omitempty"`
	CreatedBy                string    `db:"created_by" json:"created_by"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
}

// ReportDetail enriches a report with its class name.
type ReportDetail struct {
	Report
	ClassName string `db:"class_name" json:"class_name"`
}

// MonitoringRow is a report joined with rating aggregates.
type MonitoringRow struct {
	ReportDetail
	CourseNameCurrent string   `db:"current_course_name" json:"current_course_name"`
	AverageRating     *float64 `db:"average_rating" json:"average_rating,omitempty"`
	RatingCount       int      `db:"rating_count" json:"rating_count"`
}

// Rating is one student's score on one report. (report_id, student_id) is
// unique; a resubmission updates the existing row.
type Rating struct {
	ID          string    `db:"id" json:"id"`
	ReportID    string    `db:"report_id" json:"report_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	RatingValue int       `db:"rating_value" json:"rating_value"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// RatingDetail includes the rating student's display name.
type RatingDetail struct {
	Rating
	StudentName string `db:"student_name" json:"student_name"`
}

// Feedback is a free-text note from a principal lecturer on a report.
// Multiple entries per report are allowed, including from the same author.
type Feedback struct {
	ID                  string    `db:"id" json:"id"`
	ReportID            string    `db:"report_id" json:"report_id"`
	PrincipalLecturerID string    `db:"principal_lecturer_id" json:"principal_lecturer_id"`
	FeedbackText        string    `db:"feedback_text" json:"feedback_text"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// FeedbackDetail includes the author's display name.
type FeedbackDetail struct {
	Feedback
	PrincipalLecturerName string `db:"principal_lecturer_name" json:"principal_lecturer_name"`
}
