package auth

import "context"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	// RoleAutomation is carried by API-key principals, never by users.
	RoleAutomation = "automation"
)

const (
	PermSalaryRead    = "salary.read"
	PermSalaryWrite   = "salary.write"
	PermQuotesRead    = "quotes.read"
	PermQuotesWrite   = "quotes.write"
	PermAPIKeysManage = "apikeys.manage"
	PermAuditRead     = "audit.read"
)

var DefaultPermissions = []string{
	PermSalaryRead,
	PermSalaryWrite,
	PermQuotesRead,
	PermQuotesWrite,
	PermAPIKeysManage,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleStaff: {
		PermSalaryRead,
		PermQuotesRead,
		PermQuotesWrite,
	},
	RoleAutomation: {
		PermSalaryRead,
		PermQuotesRead,
		PermQuotesWrite,
	},
}

func ValidUserRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// StaticPermissions resolves permissions from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true, nil
		}
	}
	return false, nil
}
