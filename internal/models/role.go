package models

import (
	"fmt"
	"strings"
)

// Role is the job a unit fills inside a team.
type Role int

const (
	RoleDPS Role = iota
	RoleSupportDPS
	RoleAmplifier
	RoleSustain
)

// AllRoles lists every role in team slot order.
var AllRoles = [...]Role{RoleDPS, RoleSupportDPS, RoleAmplifier, RoleSustain}

// String returns the dataset name of the role.
func (r Role) String() string {
	switch r {
	case RoleDPS:
		return "DPS"
	case RoleSupportDPS:
		return "SupportDPS"
	case RoleAmplifier:
		return "Amplifier"
	case RoleSustain:
		return "Sustain"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleDPS:
		return "Main DPS"
	case RoleSupportDPS:
		return "Sub-DPS"
	case RoleAmplifier:
		return "Amplifier"
	case RoleSustain:
		return "Sustain"
	}
	return r.String()
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r >= RoleDPS && r <= RoleSustain
}

// IsDamage reports whether the role deals damage (DPS or SupportDPS).
func (r Role) IsDamage() bool {
	return r == RoleDPS || r == RoleSupportDPS
}

// ParseRole converts a dataset role name into a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
