package domain

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of roles the backend issues in its tokens.
type Role int

const (
	RoleUsuario Role = iota
	RoleSoporte
	RoleAdmin
)

// roleNames maps roles to the literal names the backend uses in JWT claims
// and JSON payloads.
var roleNames = map[Role]string{
	RoleUsuario: "Usuario",
	RoleSoporte: "Soporte",
	RoleAdmin:   "Admin",
}

// ParseRole resolves a claim value to a Role. Unknown or misspelled names
// report false instead of falling through to a default role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "Usuario":
		return RoleUsuario, true
	case "Soporte":
		return RoleSoporte, true
	case "Admin":
		return RoleAdmin, true
	}
	return 0, false
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalJSON writes the backend's literal role name.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
	return json.Marshal(name)
}

// UnmarshalJSON accepts only the three known role names.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	role, ok := ParseRole(name)
	if !ok {
		return fmt.Errorf("unknown role %q", name)
	}
	*r = role
	return nil
}
