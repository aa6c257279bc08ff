package models

// Structure tags the shape of a team.
type Structure string

const (
	StructureHypercarry  Structure = "hypercarry"
	StructureDualCarry   Structure = "dual-carry"
	StructureTripleCarry Structure = "triple-carry"
	StructureSuperBreak  Structure = "super-break"
	StructureFollowUp    Structure = "follow-up"
	StructureDoT         Structure = "dot"
)

// Composition is a named playstyle variant of a unit.
type Composition struct {
	ID                string                      `json:"id"`
	Name              string                      `json:"name"`
	IsPrimary         bool                        `json:"isPrimary,omitempty"`
	TeammateOverrides map[Role][]TeammateOverride `json:"teammateOverrides,omitempty"`
	Core              CoreRequirements            `json:"core"`
	PathRequirements  []PathRequirement           `json:"pathRequirements,omitempty"`
	LabelRequirements []LabelRequirement          `json:"labelRequirements,omitempty"`
	WeakModes         []Mode                      `json:"weakModes,omitempty"`
	Teams             []CuratedTeam               `json:"teams,omitempty"`
}

// TeammateOverride replaces or removes one teammate recommendation.
type TeammateOverride struct {
	ID                       string               `json:"id"`
	Rating                   *Rating              `json:"rating,omitempty"`
	Excluded                 bool                 `json:"excluded,omitempty"`
	Reason                   string               `json:"reason,omitempty"`
	TheirInvestmentModifiers []InvestmentModifier `json:"theirInvestmentModifiers,omitempty"`
}

// CoreRequirements names units a team must contain for the composition to work.
type CoreRequirements struct {
	Units []CoreUnit `json:"units,omitempty"`
}

// CoreUnit is a required teammate, optionally at a minimum eidolon.
type CoreUnit struct {
	ID         string `json:"id"`
	MinEidolon int    `json:"minEidolon,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// PathRequirement asks for at least Count units of Path.
type PathRequirement struct {
	Count  int    `json:"count"`
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// LabelRequirement asks for at least Count units carrying Label.
type LabelRequirement struct {
	Count  int    `json:"count"`
	Label  string `json:"label"`
	Reason string `json:"reason,omitempty"`
}

// CuratedTeam is a hand-picked exemplar team for a composition.
type CuratedTeam struct {
	Name      string    `json:"name,omitempty"`
	Units     []string  `json:"units"`
	Rating    Rating    `json:"rating"`
	Structure Structure `json:"structure,omitempty"`
}

// IsWeakIn reports whether mode is listed as a weak mode. Advisory only.
func (c *Composition) IsWeakIn(mode Mode) bool {
	for _, m := range c.WeakModes {
		if m == mode {
			return true
		}
	}
	return false
}

// HasRequirements reports whether the composition constrains team contents.
func (c *Composition) HasRequirements() bool {
	return len(c.Core.Units) > 0 || len(c.PathRequirements) > 0 || len(c.LabelRequirements) > 0
}
