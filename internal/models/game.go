package models

import (
	"fmt"
	"strings"
)

// Mode is a game mode with its own tier list.
type Mode string

const (
	ModeMoC Mode = "moc"
	ModePF  Mode = "pf"
	ModeAS  Mode = "as"
)

// DefaultMode is used when a request does not name a mode.
const DefaultMode = ModeMoC

// AllModes lists every game mode.
var AllModes = [...]Mode{ModeMoC, ModePF, ModeAS}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeMoC, ModePF, ModeAS:
		return true
	}
	return false
}

// Label returns the display name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeMoC:
		return "Memory of Chaos"
	case ModePF:
		return "Pure Fiction"
	case ModeAS:
		return "Apocalyptic Shadow"
	}
	return string(m)
}

// ParseMode converts a mode name. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultMode, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown game mode %q", s)
	}
	return m, nil
}

// TierData holds tier ratings per unit id, per mode, per role.
type TierData map[string]map[Mode]map[Role]Tier

// Lookup returns the tier of unit id in mode for role.
func (td TierData) Lookup(id string, mode Mode, role Role) (Tier, bool) {
	byMode, ok := td[id]
	if !ok {
		return DefaultTier, false
	}
	byRole, ok := byMode[mode]
	if !ok {
		return DefaultTier, false
	}
	t, ok := byRole[role]
	if !ok {
		return DefaultTier, false
	}
	return t, true
}

// Best returns the best tier of unit id in mode across all roles.
func (td TierData) Best(id string, mode Mode) (Tier, bool) {
	byRole, ok := td[id][mode]
	if !ok || len(byRole) == 0 {
		return DefaultTier, false
	}
	best := Tier5
	for _, t := range byRole {
		if t.Better(best) {
			best = t
		}
	}
	return best, true
}
