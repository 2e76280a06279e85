package constants

// Role codes carried in the JWT role_code claim. Issuance and role
// assignment live in the auth service; this backend only consults them.
const (
	RoleStudent    = "STUDENT"
	RoleFaculty    = "FACULTY"
	RoleHOD        = "HOD"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

var (
	AllRoles = []string{
		RoleStudent,
		RoleFaculty,
		RoleHOD,
		RoleAdmin,
		RoleSuperAdmin,
	}

	FacultyAndAbove = []string{
		RoleFaculty,
		RoleHOD,
		RoleAdmin,
		RoleSuperAdmin,
	}

	AdminOnly = []string{
		RoleHOD,
		RoleAdmin,
		RoleSuperAdmin,
	}
)

// Capability names the operations the scheduling/attendance core guards.
// One policy table instead of role-string comparisons scattered through
// controllers and services.
type Capability string

const (
	CapManageTimetable  Capability = "timetable.manage"
	CapOpenSession      Capability = "attendance.session.open"
	CapCloseSession     Capability = "attendance.session.close"
	CapBlockSession     Capability = "attendance.session.block"
	CapReopenSession    Capability = "attendance.session.reopen"
	CapSelfMark         Capability = "attendance.mark.self"
	CapManualMark       Capability = "attendance.mark.manual"
	CapViewAnyReport    Capability = "attendance.report.view_any"
	CapManageAcademics  Capability = "academics.manage"
)

var capabilityRoles = map[Capability][]string{
	CapManageTimetable: AdminOnly,
	CapOpenSession:     {RoleFaculty},
	CapCloseSession:    {RoleFaculty},
	CapBlockSession:    FacultyAndAbove,
	CapReopenSession:   FacultyAndAbove,
	CapSelfMark:        {RoleStudent},
	CapManualMark:      FacultyAndAbove,
	CapViewAnyReport:   AdminOnly,
	CapManageAcademics: AdminOnly,
}

// Can reports whether a role holds a capability. Ownership checks
// (faculty owns the timetable entry, student owns the report) stay in the
// services; this only answers the role half of the question.
func Can(roleCode string, cap Capability) bool {
	for _, r := range capabilityRoles[cap] {
		if r == roleCode {
			return true
		}
	}
	return false
}

// IsAdmin is the shorthand the session state machine uses for the
// "faculty-or-admin" and reopen rules.
func IsAdmin(roleCode string) bool {
	return roleCode == RoleHOD || roleCode == RoleAdmin || roleCode == RoleSuperAdmin
}
