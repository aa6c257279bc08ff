package authoring

import (
	"fmt"

	"github.com/meur/teamforge/internal/apperrors"
	"github.com/meur/teamforge/internal/models"
)

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionSkipped  Decision = "skipped"
)

// Edit adjusts a suggestion on acceptance. Nil fields keep the proposal.
type Edit struct {
	Rating *models.Rating `json:"rating,omitempty"`
	Role   *models.Role   `json:"role,omitempty"`
	Reason *string        `json:"reason,omitempty"`
}

// Review walks a reviewer through a batch of suggestions. Each suggestion is
// accepted (optionally edited) or skipped; Apply turns the accepted ones into
// patched units.
type Review struct {
	items     []Suggestion
	decisions map[string]Decision
}

func NewReview(suggestions []Suggestion) *Review {
	r := &Review{
		items:     append([]Suggestion(nil), suggestions...),
		decisions: make(map[string]Decision, len(suggestions)),
	}
	for _, s := range r.items {
		r.decisions[s.ID] = DecisionPending
	}
	return r
}

func (r *Review) index(id string) (int, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("suggestion %s: %w", id, apperrors.ErrNotFound)
}

// Accept marks a suggestion accepted, applying edit first when given.
func (r *Review) Accept(id string, edit *Edit) error {
	i, err := r.index(id)
	if err != nil {
		return err
	}
	if edit != nil {
		s := &r.items[i]
		if edit.Rating != nil {
			if !edit.Rating.Valid() {
				return fmt.Errorf("rating %d: %w", int(*edit.Rating), apperrors.ErrInvalidInput)
			}
			s.Rating = *edit.Rating
		}
		if edit.Role != nil {
			if !edit.Role.Valid() {
				return fmt.Errorf("role %d: %w", int(*edit.Role), apperrors.ErrInvalidInput)
			}
			s.Role = *edit.Role
		}
		if edit.Reason != nil {
			s.Reason = *edit.Reason
		}
	}
	r.decisions[id] = DecisionAccepted
	return nil
}

// Skip marks a suggestion as reviewed without applying it.
func (r *Review) Skip(id string) error {
	if _, err := r.index(id); err != nil {
		return err
	}
	r.decisions[id] = DecisionSkipped
	return nil
}

func (r *Review) Decision(id string) Decision {
	return r.decisions[id]
}

// Pending returns the suggestions still waiting for a decision.
func (r *Review) Pending() []Suggestion {
	return r.with(DecisionPending)
}

func (r *Review) Accepted() []Suggestion {
	return r.with(DecisionAccepted)
}

func (r *Review) with(d Decision) []Suggestion {
	var out []Suggestion
	for _, s := range r.items {
		if r.decisions[s.ID] == d {
			out = append(out, s)
		}
	}
	return out
}

// Apply returns copies of every unit touched by an accepted suggestion, in
// dataset order, with the recommendation added or updated. The dataset itself
// is not modified.
func (r *Review) Apply(data Lookup) []models.Unit {
	patched := make(map[string]*models.Unit)
	for _, s := range r.Accepted() {
		u, ok := patched[s.UnitID]
		if !ok {
			orig, found := data.Unit(s.UnitID)
			if !found {
				continue
			}
			u = cloneTeammates(orig)
			patched[s.UnitID] = u
		}
		upsertRec(u, s)
	}

	var out []models.Unit
	units := data.Units()
	for i := range units {
		if u, ok := patched[units[i].ID]; ok {
			out = append(out, *u)
		}
	}
	return out
}

// cloneTeammates copies u deeply enough that its teammate lists can be edited.
func cloneTeammates(u *models.Unit) *models.Unit {
	c := *u
	c.BaseTeammates = make(map[models.Role][]models.TeammateRec, len(u.BaseTeammates))
	for role, recs := range u.BaseTeammates {
		c.BaseTeammates[role] = append([]models.TeammateRec(nil), recs...)
	}
	return &c
}

func upsertRec(u *models.Unit, s Suggestion) {
	for _, role := range models.AllRoles {
		recs := u.BaseTeammates[role]
		for i := range recs {
			if recs[i].ID != s.TeammateID {
				continue
			}
			if role == s.Role {
				recs[i].Rating = s.Rating
				recs[i].Reason = s.Reason
				return
			}
			// moved to another role
			rec := recs[i]
			u.BaseTeammates[role] = append(recs[:i:i], recs[i+1:]...)
			rec.Rating, rec.Reason = s.Rating, s.Reason
			u.BaseTeammates[s.Role] = append(u.BaseTeammates[s.Role], rec)
			return
		}
	}
	u.BaseTeammates[s.Role] = append(u.BaseTeammates[s.Role], models.TeammateRec{
		ID:     s.TeammateID,
		Rating: s.Rating,
		Reason: s.Reason,
	})
}
