// Package policy is the single decision point for role-scoped data access.
// Every domain operation asks Decide for a row-filtering scope before
// touching the database; no handler or service queries unscoped data on
// behalf of a restricted role.
package policy

import "github.com/molisezx/luct-reporting/internal/models"

// Operation names a protected domain operation.
type Operation string

const (
	OpListCourses    Operation = "courses.list"
	OpCreateCourse   Operation = "courses.create"
	OpListFaculties  Operation = "faculties.list"
	OpListClasses    Operation = "classes.list"
	OpListReports    Operation = "reports.list"
	OpCreateReport   Operation = "reports.create"
	OpExportReports  Operation = "reports.export"
	OpSearchReports  Operation = "reports.search"
	OpMonitorReports Operation = "reports.monitor"
	OpSubmitRating   Operation = "ratings.submit"
	OpListRatings    Operation = "ratings.list"
	OpSubmitFeedback Operation = "feedback.submit"
	OpListFeedback   Operation = "feedback.list"
	OpAssignLecturer Operation = "courses.assign_lecturer"
	OpListLecturers  Operation = "users.list_lecturers"
)

// ScopeKind identifies the row-filtering predicate a repository must apply.
type ScopeKind int

const (
	// ScopeAll places no ownership restriction on the query.
	ScopeAll ScopeKind = iota
	// ScopeOwnReports restricts reports to created_by = UserID.
	ScopeOwnReports
	// ScopeEnrolled restricts rows to classes the student UserID is
	// enrolled in, joined through student_enrollments.
	ScopeEnrolled
	// ScopeTaught restricts classes to lecturer_id = UserID.
	ScopeTaught
	// ScopeLedCourses restricts courses to program_leader_id = UserID.
	ScopeLedCourses
	// ScopeLedFaculties restricts reports to faculties of courses led by
	// UserID (matched by the report's snapshotted faculty name).
	ScopeLedFaculties
)

// Scope is the row-filtering predicate derived for one caller and operation.
type Scope struct {
	Kind   ScopeKind
	UserID string
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Scope   Scope
}

func allow(kind ScopeKind, userID string) Decision {
	return Decision{Allowed: true, Scope: Scope{Kind: kind, UserID: userID}}
}

func deny() Decision {
	return Decision{}
}

// Decide computes the scope for the caller's role and the operation.
// Roles not explicitly listed for an operation are denied, so an unknown
// or future role can never widen access.
func Decide(role models.UserRole, op Operation, callerID string) Decision {
	switch op {
	case OpListCourses:
		switch role {
		case models.RoleLecturer, models.RoleProgramLeader:
			return allow(ScopeAll, callerID)
		case models.RolePrincipalLecturer:
			return allow(ScopeLedCourses, callerID)
		}

	case OpCreateCourse, OpAssignLecturer, OpListLecturers:
		if role == models.RoleProgramLeader {
			return allow(ScopeAll, callerID)
		}

	case OpListClasses:
		switch role {
		case models.RoleStudent:
			return allow(ScopeEnrolled, callerID)
		case models.RoleLecturer:
			return allow(ScopeTaught, callerID)
		case models.RolePrincipalLecturer, models.RoleProgramLeader:
			return allow(ScopeAll, callerID)
		}

	case OpListReports, OpExportReports, OpSearchReports, OpMonitorReports:
		switch role {
		case models.RoleStudent:
			return allow(ScopeEnrolled, callerID)
		case models.RoleLecturer:
			return allow(ScopeOwnReports, callerID)
		case models.RolePrincipalLecturer:
			return allow(ScopeLedFaculties, callerID)
		case models.RoleProgramLeader:
			return allow(ScopeAll, callerID)
		}

	case OpCreateReport:
		if role == models.RoleLecturer {
			return allow(ScopeAll, callerID)
		}

	case OpSubmitRating:
		// Enrollment in the report's class is a separate ownership fact
		// checked against the store by the rating service.
		if role == models.RoleStudent {
			return allow(ScopeEnrolled, callerID)
		}

	case OpSubmitFeedback:
		if role == models.RolePrincipalLecturer {
			return allow(ScopeAll, callerID)
		}

	case OpListFaculties, OpListRatings, OpListFeedback:
		if role.Valid() {
			return allow(ScopeAll, callerID)
		}
	}

	return deny()
}
