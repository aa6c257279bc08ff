package models

import (
	"fmt"
	"time"
)

// Ownership is the roster status of a unit.
type Ownership string

const (
	OwnershipNone    Ownership = "none"
	OwnershipOwned   Ownership = "owned"
	OwnershipConcept Ownership = "concept" // planned pull, treated as owned on request
)

// Valid reports whether o is a known ownership status.
func (o Ownership) Valid() bool {
	switch o {
	case OwnershipNone, OwnershipOwned, OwnershipConcept:
		return true
	}
	return false
}

// UserCharacterInvestment is the player's progress on one unit.
type UserCharacterInvestment struct {
	UnitID          string    `json:"unit_id"`
	Ownership       Ownership `json:"ownership"`
	Eidolon         int       `json:"eidolon"`
	LightConeID     string    `json:"light_cone_id,omitempty"`
	Superimposition int       `json:"superimposition,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks ranges: eidolon 0-6, superimposition 1-5 when a light cone is set.
func (inv *UserCharacterInvestment) Validate() error {
	if inv.UnitID == "" {
		return fmt.Errorf("unit_id is required")
	}
	if !inv.Ownership.Valid() {
		return fmt.Errorf("invalid ownership %q", inv.Ownership)
	}
	if inv.Eidolon < 0 || inv.Eidolon > 6 {
		return fmt.Errorf("eidolon must be in [0..6], got %d", inv.Eidolon)
	}
	if inv.LightConeID != "" && (inv.Superimposition < 1 || inv.Superimposition > 5) {
		return fmt.Errorf("superimposition must be in [1..5], got %d", inv.Superimposition)
	}
	return nil
}

// InvestmentSource is the read side of the roster store.
type InvestmentSource interface {
	Ownership(id string) Ownership
	Investment(id string) *UserCharacterInvestment
}

// Roster is an in-memory snapshot of the player's investments keyed by unit id.
type Roster map[string]UserCharacterInvestment

// Ownership implements InvestmentSource.
func (r Roster) Ownership(id string) Ownership {
	inv, ok := r[id]
	if !ok || inv.Ownership == "" {
		return OwnershipNone
	}
	return inv.Ownership
}

// Investment implements InvestmentSource.
func (r Roster) Investment(id string) *UserCharacterInvestment {
	inv, ok := r[id]
	if !ok {
		return nil
	}
	return &inv
}

// Owned reports whether id can be used in a team. Concept units count only if includeConcepts.
func (r Roster) Owned(id string, includeConcepts bool) bool {
	switch r.Ownership(id) {
	case OwnershipOwned:
		return true
	case OwnershipConcept:
		return includeConcepts
	}
	return false
}

// OwnedIDs lists the owned units among units, keeping their order.
func (r Roster) OwnedIDs(units []Unit, includeConcepts bool) []string {
	var ids []string
	for i := range units {
		if r.Owned(units[i].ID, includeConcepts) {
			ids = append(ids, units[i].ID)
		}
	}
	return ids
}

// InvestmentOf reads id from src, tolerating a nil source.
func InvestmentOf(src InvestmentSource, id string) *UserCharacterInvestment {
	if src == nil {
		return nil
	}
	return src.Investment(id)
}
