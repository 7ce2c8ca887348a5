package rbac

const (
	ResourceEmployee   = "employee"
	ResourceAttendance = "attendance"
	ResourceLeave      = "leave"
	ResourceProfile    = "profile"
	ResourcePayroll    = "payroll"
	ResourcePayslip    = "payslip"
	ResourcePayrun     = "payrun"
	ResourceUser       = "user"
	ResourceRBAC       = "rbac"
)

const (
	ActionRead    = "read"
	ActionReadAll = "read_all"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionMark    = "mark"
	ActionCompute = "compute"
	ActionPay     = "pay"
	ActionExport  = "export"
	ActionManage  = "manage"

	wildcard = "*"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// HR and payroll officers are employees too, so they inherit the self-service grants.
var inheritance = [][]string{
	{string(RoleHR), string(RoleEmployee)},
	{string(RolePayrollOfficer), string(RoleEmployee)},
}

var policy = [][]string{
	{string(RoleAdmin), wildcard, wildcard},

	{string(RoleEmployee), ResourceAttendance, ActionRead},
	{string(RoleEmployee), ResourceAttendance, ActionCreate},
	{string(RoleEmployee), ResourceLeave, ActionRead},
	{string(RoleEmployee), ResourceLeave, ActionCreate},
	{string(RoleEmployee), ResourceProfile, ActionRead},
	{string(RoleEmployee), ResourceProfile, ActionUpdate},
	{string(RoleEmployee), ResourcePayslip, ActionRead},
	{string(RoleEmployee), ResourceRBAC, ActionRead},

	{string(RoleHR), ResourceEmployee, wildcard},
	{string(RoleHR), ResourceAttendance, ActionReadAll},
	{string(RoleHR), ResourceAttendance, ActionMark},
	{string(RoleHR), ResourceLeave, ActionReadAll},
	{string(RoleHR), ResourceLeave, ActionApprove},
	{string(RoleHR), ResourceLeave, ActionDelete},
	{string(RoleHR), ResourceProfile, ActionReadAll},
	{string(RoleHR), ResourceProfile, ActionManage},
	{string(RoleHR), ResourcePayroll, ActionRead},
	{string(RoleHR), ResourcePayrun, ActionRead},

	{string(RolePayrollOfficer), ResourceEmployee, ActionRead},
	{string(RolePayrollOfficer), ResourceAttendance, ActionReadAll},
	{string(RolePayrollOfficer), ResourceLeave, ActionReadAll},
	{string(RolePayrollOfficer), ResourceLeave, ActionApprove},
	{string(RolePayrollOfficer), ResourceProfile, ActionReadAll},
	{string(RolePayrollOfficer), ResourcePayroll, wildcard},
	{string(RolePayrollOfficer), ResourcePayslip, wildcard},
	{string(RolePayrollOfficer), ResourcePayrun, wildcard},
}
