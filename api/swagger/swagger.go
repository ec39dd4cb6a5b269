package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LUCT Reporting API",
        "description": "Role-scoped lecture reporting for students, lecturers, principal lecturers, and program leaders",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration and session lifecycle"},
        {"name": "Reports", "description": "Lecture report submission and scoped reads"},
        {"name": "Courses", "description": "Courses and faculties"},
        {"name": "Classes", "description": "Class listings"},
        {"name": "Ratings", "description": "Student ratings on reports"},
        {"name": "Feedback", "description": "Principal lecturer feedback"},
        {"name": "Assignments", "description": "Lecturer-to-course assignments"},
        {"name": "Exports", "description": "CSV and PDF report exports"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Username or email taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and mint a session token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Invalidate the presented session token",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "No session token"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Return the account behind the presented session token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No session token"}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List reports visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Role not permitted"}
                }
            },
            "post": {
                "tags": ["Reports"],
                "summary": "Submit a lecture report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Only lecturers submit reports"}
                }
            }
        },
        "/search": {
            "get": {
                "tags": ["Reports"],
                "summary": "Search the caller's visible reports",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/monitoring": {
            "get": {
                "tags": ["Reports"],
                "summary": "Reports with rating aggregates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render the caller's visible reports to CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/export/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated export",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid download token"}
                }
            }
        },
        "/reports/{id}/ratings": {
            "get": {
                "tags": ["Ratings"],
                "summary": "List ratings on a report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}/feedback": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback on a report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ratings": {
            "post": {
                "tags": ["Ratings"],
                "summary": "Rate a report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRatingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rating replaced"},
                    "201": {"description": "Rating created"},
                    "403": {"description": "Not enrolled"}
                }
            }
        },
        "/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit feedback on a report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List courses visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Courses"],
                "summary": "Create a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCourseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Course code taken"}
                }
            }
        },
        "/principal/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "Caller's courses with class and lecturer counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculties": {
            "get": {
                "tags": ["Courses"],
                "summary": "List faculties",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes visible to the caller",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a lecturer to a course",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignLecturerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/program/lecturers": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List the lecturer roster",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["student", "lecturer", "principal_lecturer", "program_leader"]},
                "fullName": {"type": "string"}
            },
            "required": ["username", "email", "password", "role", "fullName"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "CreateReportRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"},
                "week_of_reporting": {"type": "string"},
                "date_of_lecture": {"type": "string"},
                "actual_students_present": {"type": "integer"},
                "venue": {"type": "string"},
                "scheduled_time": {"type": "string"},
                "topic_taught": {"type": "string"},
                "learning_outcomes": {"type": "string"},
                "lecturer_recommendations": {"type": "string"}
            },
            "required": ["class_id", "week_of_reporting", "date_of_lecture", "venue", "scheduled_time", "topic_taught", "learning_outcomes"]
        },
        "SubmitRatingRequest": {
            "type": "object",
            "properties": {
                "report_id": {"type": "string"},
                "rating_value": {"type": "integer", "minimum": 1, "maximum": 5},
                "comment": {"type": "string"}
            },
            "required": ["report_id", "rating_value"]
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "properties": {
                "report_id": {"type": "string"},
                "feedback_text": {"type": "string"}
            },
            "required": ["report_id", "feedback_text"]
        },
        "CreateCourseRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "faculty_id": {"type": "string"}
            },
            "required": ["code", "name", "faculty_id"]
        },
        "AssignLecturerRequest": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "lecturer_id": {"type": "string"}
            },
            "required": ["course_id", "lecturer_id"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
