package rest

import (
	"net/http"

	"github.com/frahmantamala/training-management/internal/auth"
)

// Route is one endpoint behind the access gate. Every route becomes a
// permission row when the database is seeded.
type Route struct {
	Method  string
	Pattern string
	Module  string
	Name    string
	// Grants lists the roles, besides ADMINISTRATOR, seeded with this route.
	Grants []string
	// Roles narrows the route to these role names after the gate passes.
	Roles []string

	handler func(*Handlers) http.HandlerFunc
}

// PermissionPath is the route as permissions store it, e.g. /roles/:roleId.
func (rt Route) PermissionPath() string {
	return auth.NormalizeRoutePattern(rt.Pattern, "")
}

var (
	everyone  = []string{auth.RoleDepartmentHead, auth.RoleAuditor, auth.RoleTrainer, auth.RoleTrainee}
	reviewers = []string{auth.RoleDepartmentHead, auth.RoleAuditor}
	staff     = []string{auth.RoleDepartmentHead, auth.RoleAuditor, auth.RoleTrainer}
	heads     = []string{auth.RoleDepartmentHead}
	teaching  = []string{auth.RoleDepartmentHead, auth.RoleTrainer}
)

var protectedRoutes = []Route{
	{Method: http.MethodGet, Pattern: "/profile", Module: "profile", Name: "View own profile", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.GetProfile }},
	{Method: http.MethodPut, Pattern: "/profile", Module: "profile", Name: "Update own profile", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.UpdateProfile }},
	{Method: http.MethodPut, Pattern: "/profile/password", Module: "profile", Name: "Change own password", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.ChangePassword }},

	{Method: http.MethodGet, Pattern: "/roles", Module: "roles", Name: "List roles", Grants: staff,
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.ListRoles }},
	{Method: http.MethodPost, Pattern: "/roles", Module: "roles", Name: "Create role",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.CreateRole }},
	{Method: http.MethodGet, Pattern: "/roles/{roleId}", Module: "roles", Name: "View role", Grants: staff,
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.GetRole }},
	{Method: http.MethodPut, Pattern: "/roles/{roleId}", Module: "roles", Name: "Update role",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.UpdateRole }},
	{Method: http.MethodDelete, Pattern: "/roles/{roleId}", Module: "roles", Name: "Disable role",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.DisableRole }},
	{Method: http.MethodPatch, Pattern: "/roles/{roleId}/enable", Module: "roles", Name: "Enable role",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.EnableRole }},
	{Method: http.MethodDelete, Pattern: "/roles/{roleId}/permanent", Module: "roles", Name: "Delete role permanently",
		Roles:   []string{auth.RoleAdministrator},
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.DeleteRolePermanently }},
	{Method: http.MethodGet, Pattern: "/roles/{roleId}/permissions", Module: "roles", Name: "List role permissions", Grants: reviewers,
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.ListRolePermissions }},
	{Method: http.MethodPut, Pattern: "/roles/{roleId}/permissions", Module: "roles", Name: "Replace role permissions",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.ReplaceRolePermissions }},
	{Method: http.MethodPost, Pattern: "/roles/{roleId}/permissions", Module: "roles", Name: "Grant role permissions",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.AddRolePermissions }},
	{Method: http.MethodDelete, Pattern: "/roles/{roleId}/permissions", Module: "roles", Name: "Revoke role permissions",
		handler: func(h *Handlers) http.HandlerFunc { return h.Roles.RemoveRolePermissions }},

	{Method: http.MethodGet, Pattern: "/permissions", Module: "permissions", Name: "List permissions", Grants: reviewers,
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.ListPermissions }},
	{Method: http.MethodPost, Pattern: "/permissions", Module: "permissions", Name: "Create permission",
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.CreatePermission }},
	{Method: http.MethodGet, Pattern: "/permissions/{permissionId}", Module: "permissions", Name: "View permission", Grants: reviewers,
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.GetPermission }},
	{Method: http.MethodPut, Pattern: "/permissions/{permissionId}", Module: "permissions", Name: "Update permission",
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.UpdatePermission }},
	{Method: http.MethodDelete, Pattern: "/permissions/{permissionId}", Module: "permissions", Name: "Disable permission",
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.DisablePermission }},
	{Method: http.MethodPatch, Pattern: "/permissions/{permissionId}/enable", Module: "permissions", Name: "Enable permission",
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.EnablePermission }},
	{Method: http.MethodDelete, Pattern: "/permissions/{permissionId}/permanent", Module: "permissions", Name: "Delete permission permanently",
		Roles:   []string{auth.RoleAdministrator},
		handler: func(h *Handlers) http.HandlerFunc { return h.Permissions.DeletePermissionPermanently }},

	{Method: http.MethodGet, Pattern: "/users", Module: "users", Name: "List users", Grants: staff,
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.ListUsers }},
	{Method: http.MethodPost, Pattern: "/users", Module: "users", Name: "Create user",
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.CreateUser }},
	{Method: http.MethodPost, Pattern: "/users/bulk", Module: "users", Name: "Create users in bulk",
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.BulkCreateUsers }},
	{Method: http.MethodGet, Pattern: "/users/{userId}", Module: "users", Name: "View user", Grants: staff,
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.GetUser }},
	{Method: http.MethodPut, Pattern: "/users/{userId}", Module: "users", Name: "Update user",
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.UpdateUser }},
	{Method: http.MethodDelete, Pattern: "/users/{userId}", Module: "users", Name: "Disable user",
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.DisableUser }},
	{Method: http.MethodPatch, Pattern: "/users/{userId}/enable", Module: "users", Name: "Enable user",
		handler: func(h *Handlers) http.HandlerFunc { return h.Users.EnableUser }},

	{Method: http.MethodGet, Pattern: "/departments", Module: "departments", Name: "List departments", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.ListDepartments }},
	{Method: http.MethodPost, Pattern: "/departments", Module: "departments", Name: "Create department",
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.CreateDepartment }},
	{Method: http.MethodGet, Pattern: "/departments/{departmentId}", Module: "departments", Name: "View department", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.GetDepartment }},
	{Method: http.MethodPut, Pattern: "/departments/{departmentId}", Module: "departments", Name: "Update department", Grants: heads,
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.UpdateDepartment }},
	{Method: http.MethodDelete, Pattern: "/departments/{departmentId}", Module: "departments", Name: "Disable department",
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.DisableDepartment }},
	{Method: http.MethodPatch, Pattern: "/departments/{departmentId}/enable", Module: "departments", Name: "Enable department",
		handler: func(h *Handlers) http.HandlerFunc { return h.Departments.EnableDepartment }},

	{Method: http.MethodGet, Pattern: "/courses", Module: "courses", Name: "List courses", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.ListCourses }},
	{Method: http.MethodPost, Pattern: "/courses", Module: "courses", Name: "Create course", Grants: teaching,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.CreateCourse }},
	{Method: http.MethodGet, Pattern: "/courses/{courseId}", Module: "courses", Name: "View course", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.GetCourse }},
	{Method: http.MethodPut, Pattern: "/courses/{courseId}", Module: "courses", Name: "Update course", Grants: teaching,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.UpdateCourse }},
	{Method: http.MethodDelete, Pattern: "/courses/{courseId}", Module: "courses", Name: "Disable course", Grants: heads,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.DisableCourse }},
	{Method: http.MethodPatch, Pattern: "/courses/{courseId}/enable", Module: "courses", Name: "Enable course", Grants: heads,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.EnableCourse }},
	{Method: http.MethodGet, Pattern: "/courses/{courseId}/subjects", Module: "courses", Name: "List subjects", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.ListSubjects }},
	{Method: http.MethodPost, Pattern: "/courses/{courseId}/subjects", Module: "courses", Name: "Create subject", Grants: teaching,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.CreateSubject }},
	{Method: http.MethodPut, Pattern: "/courses/{courseId}/subjects/{subjectId}", Module: "courses", Name: "Update subject", Grants: teaching,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.UpdateSubject }},
	{Method: http.MethodDelete, Pattern: "/courses/{courseId}/subjects/{subjectId}", Module: "courses", Name: "Delete subject", Grants: teaching,
		handler: func(h *Handlers) http.HandlerFunc { return h.Courses.DeleteSubject }},

	{Method: http.MethodGet, Pattern: "/reports", Module: "reports", Name: "List reports", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Reports.ListReports }},
	{Method: http.MethodPost, Pattern: "/reports", Module: "reports", Name: "Submit report", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Reports.CreateReport }},
	{Method: http.MethodGet, Pattern: "/reports/{reportId}", Module: "reports", Name: "View report", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Reports.GetReport }},
	{Method: http.MethodDelete, Pattern: "/reports/{reportId}", Module: "reports", Name: "Delete report", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Reports.DeleteReport }},

	{Method: http.MethodGet, Pattern: "/requests", Module: "requests", Name: "List requests", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Requests.ListRequests }},
	{Method: http.MethodPost, Pattern: "/requests", Module: "requests", Name: "Submit request", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Requests.CreateRequest }},
	{Method: http.MethodGet, Pattern: "/requests/{requestId}", Module: "requests", Name: "View request", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Requests.GetRequest }},
	{Method: http.MethodPatch, Pattern: "/requests/{requestId}/approve", Module: "requests", Name: "Approve request", Grants: reviewers,
		handler: func(h *Handlers) http.HandlerFunc { return h.Requests.ApproveRequest }},
	{Method: http.MethodPatch, Pattern: "/requests/{requestId}/reject", Module: "requests", Name: "Reject request", Grants: reviewers,
		handler: func(h *Handlers) http.HandlerFunc { return h.Requests.RejectRequest }},

	{Method: http.MethodPost, Pattern: "/media/images/upload", Module: "media", Name: "Upload image", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Media.UploadImage }},
	{Method: http.MethodPost, Pattern: "/media/documents/upload", Module: "media", Name: "Upload document", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Media.UploadDocument }},
	{Method: http.MethodPost, Pattern: "/media/images/presigned-url", Module: "media", Name: "Presign image upload", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Media.PresignImage }},
	{Method: http.MethodPost, Pattern: "/media/documents/presigned-url", Module: "media", Name: "Presign document upload", Grants: everyone,
		handler: func(h *Handlers) http.HandlerFunc { return h.Media.PresignDocument }},
}

// Catalogue returns every route behind the gate.
func Catalogue() []Route {
	out := make([]Route, len(protectedRoutes))
	copy(out, protectedRoutes)
	return out
}
