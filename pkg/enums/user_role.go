package enums

import "fmt"

// UserRole represents a staff permission role. A user may hold several roles
// at once, so checks operate on sets rather than single values.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleInkoper UserRole = "inkoper"
	UserRoleFinance UserRole = "finance"
	UserRoleERP     UserRole = "erp"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleInkoper,
	UserRoleFinance,
	UserRoleERP,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// RoleSet is the set of roles an actor holds.
type RoleSet []UserRole

// ParseRoleSet converts raw role strings into a RoleSet, rejecting unknowns.
func ParseRoleSet(values []string) (RoleSet, error) {
	set := make(RoleSet, 0, len(values))
	for _, value := range values {
		role, err := ParseUserRole(value)
		if err != nil {
			return nil, err
		}
		if set.Has(role) {
			continue
		}
		set = append(set, role)
	}
	return set, nil
}

// Has reports whether the set contains the given role.
func (s RoleSet) Has(role UserRole) bool {
	for _, candidate := range s {
		if candidate == role {
			return true
		}
	}
	return false
}

// Intersects reports whether the set shares at least one role with allowed.
func (s RoleSet) Intersects(allowed ...UserRole) bool {
	for _, role := range allowed {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// Strings returns the raw string values, for storage and logging.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, role := range s {
		out[i] = string(role)
	}
	return out
}
