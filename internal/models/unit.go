package models

// Unit is a playable character as described by the static dataset.
type Unit struct {
	ID      string `json:"id"`
	BaseID  string `json:"baseId,omitempty"` // shared by every form of a multi-form unit
	Name    string `json:"name"`
	Element string `json:"element"`
	Path    string `json:"path"`
	Rarity  int    `json:"rarity"`
	// Roles is ordered; the first entry is the unit's primary role.
	Roles  []Role   `json:"roles"`
	Labels []string `json:"labels,omitempty"`

	BaseTeammates map[Role][]TeammateRec `json:"baseTeammates,omitempty"`
	Compositions  []Composition          `json:"compositions,omitempty"`
	Investment    InvestmentTable        `json:"investment"`
	Restrictions  Restrictions           `json:"restrictions"`
}

// TeammateRec is one outbound recommendation: this unit wants ID as a teammate.
type TeammateRec struct {
	ID     string `json:"id"`
	Rating Rating `json:"rating"`
	Reason string `json:"reason,omitempty"`
	// Keyed to the viewing (focal) unit's eidolon or light cone, not the teammate's.
	TheirInvestmentModifiers []InvestmentModifier `json:"theirInvestmentModifiers,omitempty"`
}

// InvestmentModifier shifts a teammate rating by Modifier steps once the focal
// unit reaches the given eidolon level and, if LightCone is set, equips that
// light cone at Superimposition or higher.
type InvestmentModifier struct {
	Eidolon         int    `json:"eidolon,omitempty"`
	LightCone       string `json:"lightCone,omitempty"`
	Superimposition int    `json:"superimposition,omitempty"`
	Modifier        int    `json:"modifier"`
	Reason          string `json:"reason,omitempty"`
}

// MetBy reports whether inv satisfies the modifier's threshold. A nil
// investment is treated as E0 with no light cone.
func (m InvestmentModifier) MetBy(inv *UserCharacterInvestment) bool {
	eidolon, lc, si := 0, "", 0
	if inv != nil {
		eidolon, lc, si = inv.Eidolon, inv.LightConeID, inv.Superimposition
	}
	if eidolon < m.Eidolon {
		return false
	}
	if m.LightCone == "" {
		return true
	}
	need := m.Superimposition
	if need < 1 {
		need = 1
	}
	return lc == m.LightCone && si >= need
}

// InvestmentTable holds the power lost for each missing eidolon and for each light cone.
type InvestmentTable struct {
	Eidolons   []EidolonPenalty   `json:"eidolons,omitempty"`
	LightCones []LightConePenalty `json:"lightCones,omitempty"`
}

// EidolonPenalty is the tier-point penalty for not owning eidolon Level.
type EidolonPenalty struct {
	Level            int               `json:"level"`
	Penalty          float64           `json:"penalty"`
	SynergyModifiers []SynergyModifier `json:"synergyModifiers,omitempty"`
}

// SynergyModifier improves (or worsens) how this unit rates a teammate once
// the owning eidolon is reached.
type SynergyModifier struct {
	TeammateID string `json:"teammateId"`
	Modifier   int    `json:"modifier"`
	Reason     string `json:"reason,omitempty"`
}

// LightConePenalty is the tier-point penalty of a light cone at S1 and S5.
type LightConePenalty struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	S1Penalty float64 `json:"s1Penalty"`
	S5Penalty float64 `json:"s5Penalty"`
}

// Restrictions lists units this unit should not be teamed with.
type Restrictions struct {
	Avoid    []AvoidEntry `json:"avoid,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// AvoidEntry is a single avoided teammate.
type AvoidEntry struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

// CanonicalID returns the base identity used for duplicate checks.
func (u *Unit) CanonicalID() string {
	if u.BaseID != "" {
		return u.BaseID
	}
	return u.ID
}

// HasRole reports whether the unit can fill r.
func (u *Unit) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// PrimaryRole is the first listed role; units without roles default to Amplifier.
func (u *Unit) PrimaryRole() Role {
	if len(u.Roles) == 0 {
		return RoleAmplifier
	}
	return u.Roles[0]
}

// IsDamageDealer reports whether any of the unit's roles deals damage.
func (u *Unit) IsDamageDealer() bool {
	for _, r := range u.Roles {
		if r.IsDamage() {
			return true
		}
	}
	return false
}

// DamageOnly reports whether every role of the unit is a damage role.
func (u *Unit) DamageOnly() bool {
	if len(u.Roles) == 0 {
		return false
	}
	for _, r := range u.Roles {
		if !r.IsDamage() {
			return false
		}
	}
	return true
}

// HasLabel reports whether the unit carries label.
func (u *Unit) HasLabel(label string) bool {
	for _, l := range u.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Avoids reports whether the unit lists id in its avoid list.
func (u *Unit) Avoids(id string) (AvoidEntry, bool) {
	for _, a := range u.Restrictions.Avoid {
		if a.ID == id {
			return a, true
		}
	}
	return AvoidEntry{}, false
}

// PrimaryComposition returns the composition flagged primary, else the first one.
func (u *Unit) PrimaryComposition() (*Composition, bool) {
	for i := range u.Compositions {
		if u.Compositions[i].IsPrimary {
			return &u.Compositions[i], true
		}
	}
	if len(u.Compositions) > 0 {
		return &u.Compositions[0], true
	}
	return nil, false
}

// Composition returns the composition with the given id.
func (u *Unit) Composition(id string) (*Composition, bool) {
	for i := range u.Compositions {
		if u.Compositions[i].ID == id {
			return &u.Compositions[i], true
		}
	}
	return nil, false
}
