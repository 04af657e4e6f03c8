package auth

import "fmt"

// Role is the closed set of roles an account can hold.
type Role string

const (
	// RoleUser is assigned to every account at registration.
	RoleUser Role = "User"
	// RoleAdmin is reserved for operator accounts.
	RoleAdmin Role = "Admin"
)

// Capability names an action an endpoint group requires.
type Capability string

const (
	// CapManageOwnTasks allows listing, adding and deleting the caller's own tasks.
	CapManageOwnTasks Capability = "tasks:own"
	// CapViewForecast allows reading the weather feed.
	CapViewForecast Capability = "forecast:read"
)

var capabilities = map[Role]map[Capability]bool{
	RoleUser: {
		CapManageOwnTasks: true,
		CapViewForecast:   true,
	},
	RoleAdmin: {
		CapManageOwnTasks: true,
		CapViewForecast:   true,
	},
}

// ParseRole converts a claim value into a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := capabilities[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

func (r Role) String() string {
	return string(r)
}
