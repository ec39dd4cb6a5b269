package models

// CreateReportRequest carries the lecturer-entered fields of a report.
// Faculty, course, and lecturer names are snapshotted server-side from the
// class, never taken from the client.
type CreateReportRequest struct {
	ClassID                 string  `json:"class_id" validate:"required"`
	WeekOfReporting         string  `json:"week_of_reporting" validate:"required"`
	DateOfLecture           string  `json:"date_of_lecture" validate:"required"`
	ActualStudentsPresent   int     `json:"actual_students_present" validate:"min=0"`
	Venue                   string  `json:"venue" validate:"required"`
	ScheduledTime           string  `json:"scheduled_time" validate:"required"`
	TopicTaught             string  `json:"topic_taught" validate:"required"`
	LearningOutcomes        string  `json:"learning_outcomes" validate:"required"`
	LecturerRecommendations *string `json:"lecturer_recommendations,omitempty"`
}

// SubmitRatingRequest carries a student's score for a report.
type SubmitRatingRequest struct {
	ReportID    string  `json:"report_id" validate:"required"`
	RatingValue int     `json:"rating_value" validate:"required,min=1,max=5"`
	Comment     *string `json:"comment,omitempty"`
}

// SubmitRatingResponse tells the client whether the rating was newly
// created or replaced an earlier one.
type SubmitRatingResponse struct {
	Rating  Rating `json:"rating"`
	Created bool   `json:"created"`
}

// SubmitFeedbackRequest carries a principal lecturer's note on a report.
type SubmitFeedbackRequest struct {
	ReportID     string `json:"report_id" validate:"required"`
	FeedbackText string `json:"feedback_text" validate:"required"`
}

// CreateCourseRequest carries the fields for a new course. The program
// leader is always the authenticated caller, never a client-supplied ID.
type CreateCourseRequest struct {
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	FacultyID string `json:"faculty_id" validate:"required"`
}

// AssignLecturerRequest links a lecturer to a course.
type AssignLecturerRequest struct {
	CourseID   string `json:"course_id" validate:"required"`
	LecturerID string `json:"lecturer_id" validate:"required"`
}

// ExportRequest selects the output format for a reports export.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResponse describes a generated export artifact and the token used
// to download it.
type ExportResponse struct {
	FileName      string `json:"file_name"`
	Format        string `json:"format"`
	RowCount      int    `json:"row_count"`
	DownloadToken string `json:"download_token"`
	ExpiresIn     int64  `json:"expires_in"`
}
