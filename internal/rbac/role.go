package rbac

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleHR             Role = "HR"
	RolePayrollOfficer Role = "PAYROLL_OFFICER"
	RoleEmployee       Role = "EMPLOYEE"
)

var allRoles = []Role{RoleAdmin, RoleHR, RolePayrollOfficer, RoleEmployee}

func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts any casing and the dashboard's "PayrollOfficer" spelling.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == "PAYROLLOFFICER" {
		normalized = string(RolePayrollOfficer)
	}
	r := Role(normalized)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
