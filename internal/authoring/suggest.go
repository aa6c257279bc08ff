// Package authoring holds the content-editing aids over the unit dataset:
// reciprocal recommendation suggestions with a review queue, unit field
// validation and composition diffs.
package authoring

import (
	"fmt"

	"github.com/meur/teamforge/internal/models"
)

// Lookup is the dataset view the authoring tools read.
type Lookup interface {
	Units() []models.Unit
	Unit(id string) (*models.Unit, bool)
}

// UpdateThreshold is how many rating steps two reciprocal recs may differ
// before an update is proposed.
const UpdateThreshold = 2

type SuggestionKind string

const (
	SuggestAdd    SuggestionKind = "add"
	SuggestUpdate SuggestionKind = "update"
)

// Suggestion proposes that UnitID list TeammateID under Role at Rating.
type Suggestion struct {
	ID         string         `json:"id"`
	Kind       SuggestionKind `json:"kind"`
	UnitID     string         `json:"unit_id"`
	TeammateID string         `json:"teammate_id"`
	Role       models.Role    `json:"role"`
	Rating     models.Rating  `json:"rating"`
	Current    *models.Rating `json:"current,omitempty"`
	Reason     string         `json:"reason"`
}

func suggestionID(unitID, teammateID string) string {
	return unitID + ">" + teammateID
}

// SuggestReciprocals scans every base recommendation A→B. When B has no rec
// toward A it proposes adding one, mirroring A's rating, under A's primary
// role. When both exist but differ by UpdateThreshold steps or more, the
// weaker side is proposed to move up to the stronger rating. Output follows
// dataset order of the recommending unit.
func SuggestReciprocals(data Lookup) []Suggestion {
	var out []Suggestion
	seen := make(map[string]bool)

	units := data.Units()
	for i := range units {
		a := &units[i]
		for _, role := range models.AllRoles {
			for _, rec := range a.BaseTeammates[role] {
				b, ok := data.Unit(rec.ID)
				if !ok || b.CanonicalID() == a.CanonicalID() {
					continue
				}
				id := suggestionID(b.ID, a.ID)
				if seen[id] {
					continue
				}

				back, _, found := findRec(b, a.ID)
				switch {
				case !found:
					out = append(out, Suggestion{
						ID:         id,
						Kind:       SuggestAdd,
						UnitID:     b.ID,
						TeammateID: a.ID,
						Role:       a.PrimaryRole(),
						Rating:     rec.Rating,
						Reason:     fmt.Sprintf("%s rates %s %s but %s does not list %s", a.Name, b.Name, rec.Rating, b.Name, a.Name),
					})
				case ratingGap(back.Rating, rec.Rating) >= UpdateThreshold && rec.Rating.Better(back.Rating):
					current := back.Rating
					out = append(out, Suggestion{
						ID:         id,
						Kind:       SuggestUpdate,
						UnitID:     b.ID,
						TeammateID: a.ID,
						Role:       a.PrimaryRole(),
						Rating:     rec.Rating,
						Current:    &current,
						Reason:     fmt.Sprintf("%s rates %s %s but %s rates %s only %s", a.Name, b.Name, rec.Rating, b.Name, a.Name, current),
					})
				default:
					continue
				}
				seen[id] = true
			}
		}
	}
	return out
}

// findRec returns u's base rec toward id and the role it is listed under.
func findRec(u *models.Unit, id string) (models.TeammateRec, models.Role, bool) {
	for _, role := range models.AllRoles {
		for _, rec := range u.BaseTeammates[role] {
			if rec.ID == id {
				return rec, role, true
			}
		}
	}
	return models.TeammateRec{}, 0, false
}

func ratingGap(a, b models.Rating) int {
	d := a.SortIndex() - b.SortIndex()
	if d < 0 {
		return -d
	}
	return d
}
