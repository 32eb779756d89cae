package perm

// Permission tokens the portal's routes and navigation manifest refer
// to. The upstream API is the authority on what a user actually holds;
// this catalog only names what the portal can gate on.
const (
	ManageEmployees   = "manage_employees"
	ManageUsers       = "manage_users"
	ManageRoles       = "manage_roles"
	ManagePermissions = "manage_permissions"
	ManageContracts   = "manage_contracts"
	ManageAttendance  = "manage_attendance"
	CheckinCheckout   = "checkin_checkout"
	ManageLeave       = "manage_leave"
	ApproveLeave      = "approve_leave"
	ManageOvertime    = "manage_overtime"
	ManagePayroll     = "manage_payroll"
	ViewPayslips      = "view_payslips"
	ViewAudit         = "view_audit"
)

var Catalog = []string{
	ManageEmployees,
	ManageUsers,
	ManageRoles,
	ManagePermissions,
	ManageContracts,
	ManageAttendance,
	CheckinCheckout,
	ManageLeave,
	ApproveLeave,
	ManageOvertime,
	ManagePayroll,
	ViewPayslips,
	ViewAudit,
}
