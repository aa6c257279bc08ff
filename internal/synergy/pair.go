package synergy

import (
	"github.com/meur/teamforge/internal/composition"
	"github.com/meur/teamforge/internal/models"
)

// Lookup is the slice of the dataset synergy scoring reads.
type Lookup interface {
	Unit(id string) (*models.Unit, bool)
	BestTier(id string, mode models.Mode) models.Tier
}

// Options carries per-unit composition choices and the roster used for
// investment modifiers. The zero value scores raw base recommendations.
type Options struct {
	Compositions map[string]string // unit id -> composition id
	Investments  models.InvestmentSource
}

// Direction is one unit's view of another.
type Direction struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Found   bool          `json:"found"`
	Rating  models.Rating `json:"rating"`
	Avoided bool          `json:"avoided,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	Score   float64       `json:"score"`
}

// PairScore combines both directions of a pair.
type PairScore struct {
	A       string        `json:"a"`
	B       string        `json:"b"`
	Score   float64       `json:"score"`
	Rating  models.Rating `json:"rating"`
	Forward Direction     `json:"forward"`
	Reverse Direction     `json:"reverse"`
}

// Scorer computes synergy over a dataset.
type Scorer struct {
	data Lookup
}

// NewScorer creates a scorer reading data.
func NewScorer(data Lookup) *Scorer {
	return &Scorer{data: data}
}

// Bidirectional scores a and b once, without memoization.
func (s *Scorer) Bidirectional(a, b string, opts Options) PairScore {
	return s.Session(opts).Bidirectional(a, b)
}

// Session memoizes resolutions and pair scores for one computation. It is
// not safe for concurrent use; create one per call.
type Session struct {
	data  Lookup
	opts  Options
	res   map[string]composition.Resolution
	pairs map[[2]string]PairScore
}

// Session starts a memoized scoring session.
func (s *Scorer) Session(opts Options) *Session {
	return &Session{
		data:  s.data,
		opts:  opts,
		res:   make(map[string]composition.Resolution),
		pairs: make(map[[2]string]PairScore),
	}
}

// Data returns the dataset the session reads.
func (s *Session) Data() Lookup { return s.data }

func (s *Session) resolution(u *models.Unit) composition.Resolution {
	if r, ok := s.res[u.ID]; ok {
		return r
	}
	r := composition.TeammatesFor(u, s.opts.Compositions[u.ID])
	s.res[u.ID] = r
	return r
}

// Directional is from's rating of to, looked up in the role lists matching
// to's roles. A missing rating contributes zero; an avoid entry adds AvoidPenalty.
func (s *Session) Directional(from, to string) Direction {
	d := Direction{From: from, To: to}
	fromUnit, ok := s.data.Unit(from)
	if !ok {
		return d
	}

	var roles []models.Role
	if toUnit, ok := s.data.Unit(to); ok {
		roles = toUnit.Roles
	}
	if tm, ok := s.resolution(fromUnit).Find(to, roles...); ok {
		mods := append([]models.InvestmentModifier(nil), tm.Modifiers...)
		mods = append(mods, composition.EidolonSynergyModifiers(fromUnit, to)...)
		rating, _ := composition.ApplyModifiers(tm.Rating, mods, models.InvestmentOf(s.opts.Investments, from))

		d.Found = true
		d.Rating = rating
		d.Reason = tm.Reason
		d.Score = RatingToScore(rating)
	}

	if avoid, ok := fromUnit.Avoids(to); ok {
		d.Avoided = true
		d.Score += AvoidPenalty
		if d.Reason == "" {
			d.Reason = avoid.Reason
		}
	}
	return d
}

// Bidirectional averages both directions. The result is symmetric in a and b.
func (s *Session) Bidirectional(a, b string) PairScore {
	key := [2]string{a, b}
	if a > b {
		key = [2]string{b, a}
	}
	if cached, ok := s.pairs[key]; ok {
		return orient(cached, a)
	}

	fwd := s.Directional(key[0], key[1])
	rev := s.Directional(key[1], key[0])
	score := (fwd.Score + rev.Score) / 2
	ps := PairScore{
		A:       key[0],
		B:       key[1],
		Score:   score,
		Rating:  ScoreToRating(score),
		Forward: fwd,
		Reverse: rev,
	}
	s.pairs[key] = ps
	return orient(ps, a)
}

// orient returns ps with A == a.
func orient(ps PairScore, a string) PairScore {
	if ps.A == a {
		return ps
	}
	ps.A, ps.B = ps.B, ps.A
	ps.Forward, ps.Reverse = ps.Reverse, ps.Forward
	return ps
}

// Reason returns the first non-empty reason, preferring the direction from a.
func (ps PairScore) Reason() string {
	if ps.Forward.Reason != "" {
		return ps.Forward.Reason
	}
	return ps.Reverse.Reason
}
