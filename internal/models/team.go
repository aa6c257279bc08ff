package models

import (
	"sort"
	"strings"
)

// TeamSize is the number of units in every team.
const TeamSize = 4

// TeamMember is one slot of a team with the role the unit fills there.
type TeamMember struct {
	UnitID string `json:"unit_id"`
	Role   Role   `json:"role"`
}

// Contribution explains what one member brings to the team.
type Contribution struct {
	UnitID string  `json:"unit_id"`
	Role   Role    `json:"role"`
	Rating Rating  `json:"rating"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
}

// GeneratedTeam is a scored 4-unit team. Members are ordered damage first,
// then Amplifiers, then the Sustain.
type GeneratedTeam struct {
	Members       [TeamSize]TeamMember `json:"members"`
	FocalID       string               `json:"focal_id"`
	CompositionID string               `json:"composition_id,omitempty"`
	Structure     Structure            `json:"structure"`
	Score         float64              `json:"score"`
	Rating        Rating               `json:"rating"`
	TierScore     float64              `json:"tier_score"`
	TeamTier      Tier                 `json:"team_tier"`
	RankingScore  float64              `json:"ranking_score"`
	CuratedMatch  string               `json:"curated_match,omitempty"`
	Contributions []Contribution       `json:"contributions"`
	Breakdown     []string             `json:"breakdown,omitempty"`
	Insights      []string             `json:"insights,omitempty"`
	ModeRatings   map[Mode]Tier        `json:"mode_ratings,omitempty"`
	WeakModes     []Mode               `json:"weak_modes,omitempty"`
}

// IDs returns the member unit ids in slot order.
func (t *GeneratedTeam) IDs() []string {
	ids := make([]string, 0, TeamSize)
	for _, m := range t.Members {
		ids = append(ids, m.UnitID)
	}
	return ids
}

// Key returns the order-insensitive identity of the team.
func (t *GeneratedTeam) Key() string {
	return TeamKey(t.IDs())
}

// Contains reports whether id is a member.
func (t *GeneratedTeam) Contains(id string) bool {
	for _, m := range t.Members {
		if m.UnitID == id {
			return true
		}
	}
	return false
}

// DamageMembers returns the members filling a damage role, in slot order.
func (t *GeneratedTeam) DamageMembers() []TeamMember {
	var out []TeamMember
	for _, m := range t.Members {
		if m.Role.IsDamage() {
			out = append(out, m)
		}
	}
	return out
}

// TeamKey sorts ids ascending and joins them. Two teams with the same key are the same team.
func TeamKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
