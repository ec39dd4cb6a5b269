package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/molisezx/luct-reporting/internal/models"
)

func TestDecideReportsFamily(t *testing.T) {
	ops := []Operation{OpListReports, OpExportReports, OpSearchReports, OpMonitorReports}

	for _, op := range ops {
		cases := []struct {
			role models.UserRole
			kind ScopeKind
		}{
			{models.RoleStudent, ScopeEnrolled},
			{models.RoleLecturer, ScopeOwnReports},
			{models.RolePrincipalLecturer, ScopeLedFaculties},
			{models.RoleProgramLeader, ScopeAll},
		}
		for _, tc := range cases {
			decision := Decide(tc.role, op, "u1")
			assert.True(t, decision.Allowed, "%s %s", tc.role, op)
			assert.Equal(t, tc.kind, decision.Scope.Kind, "%s %s", tc.role, op)
			assert.Equal(t, "u1", decision.Scope.UserID)
		}
	}
}

func TestDecideCourses(t *testing.T) {
	assert.False(t, Decide(models.RoleStudent, OpListCourses, "u1").Allowed)

	lecturer := Decide(models.RoleLecturer, OpListCourses, "u1")
	assert.True(t, lecturer.Allowed)
	assert.Equal(t, ScopeAll, lecturer.Scope.Kind)

	principal := Decide(models.RolePrincipalLecturer, OpListCourses, "u1")
	assert.True(t, principal.Allowed)
	assert.Equal(t, ScopeLedCourses, principal.Scope.Kind)

	leader := Decide(models.RoleProgramLeader, OpListCourses, "u1")
	assert.True(t, leader.Allowed)
	assert.Equal(t, ScopeAll, leader.Scope.Kind)
}

func TestDecideMutations(t *testing.T) {
	roles := []models.UserRole{models.RoleStudent, models.RoleLecturer, models.RolePrincipalLecturer, models.RoleProgramLeader}

	for _, role := range roles {
		assert.Equal(t, role == models.RoleLecturer, Decide(role, OpCreateReport, "u1").Allowed, "create report %s", role)
		assert.Equal(t, role == models.RoleStudent, Decide(role, OpSubmitRating, "u1").Allowed, "submit rating %s", role)
		assert.Equal(t, role == models.RolePrincipalLecturer, Decide(role, OpSubmitFeedback, "u1").Allowed, "submit feedback %s", role)
		assert.Equal(t, role == models.RoleProgramLeader, Decide(role, OpCreateCourse, "u1").Allowed, "create course %s", role)
		assert.Equal(t, role == models.RoleProgramLeader, Decide(role, OpAssignLecturer, "u1").Allowed, "assign lecturer %s", role)
		assert.Equal(t, role == models.RoleProgramLeader, Decide(role, OpListLecturers, "u1").Allowed, "list lecturers %s", role)
	}
}

func TestDecideClasses(t *testing.T) {
	student := Decide(models.RoleStudent, OpListClasses, "s1")
	assert.True(t, student.Allowed)
	assert.Equal(t, ScopeEnrolled, student.Scope.Kind)

	lecturer := Decide(models.RoleLecturer, OpListClasses, "l1")
	assert.True(t, lecturer.Allowed)
	assert.Equal(t, ScopeTaught, lecturer.Scope.Kind)

	assert.Equal(t, ScopeAll, Decide(models.RolePrincipalLecturer, OpListClasses, "p1").Scope.Kind)
	assert.Equal(t, ScopeAll, Decide(models.RoleProgramLeader, OpListClasses, "pl1").Scope.Kind)
}

func TestDecideSharedReads(t *testing.T) {
	for _, op := range []Operation{OpListFaculties, OpListRatings, OpListFeedback} {
		for _, role := range []models.UserRole{models.RoleStudent, models.RoleLecturer, models.RolePrincipalLecturer, models.RoleProgramLeader} {
			assert.True(t, Decide(role, op, "u1").Allowed, "%s %s", role, op)
		}
	}
}

func TestDecideDeniesUnknownRoleAndOperation(t *testing.T) {
	assert.False(t, Decide(models.UserRole("admin"), OpListReports, "u1").Allowed)
	assert.False(t, Decide(models.UserRole(""), OpListFaculties, "u1").Allowed)
	assert.False(t, Decide(models.RoleProgramLeader, Operation("reports.delete"), "u1").Allowed)
}
