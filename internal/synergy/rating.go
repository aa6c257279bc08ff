// Package synergy scores how well units work together, pairwise and as a team.
package synergy

import "github.com/meur/teamforge/internal/models"

// ratingScores is the numeric band value of each rating, indexed by models.Rating.
var ratingScores = [...]float64{100, 85, 70, 55, 40, 25}

// ratingBands are the lower bounds used by ScoreToRating, best first.
var ratingBands = [...]struct {
	min    float64
	rating models.Rating
}{
	{90, models.RatingSPlus},
	{75, models.RatingS},
	{60, models.RatingA},
	{45, models.RatingB},
	{30, models.RatingC},
}

// AvoidPenalty is the directional score of a unit that lists its partner as avoided.
const AvoidPenalty = -40.0

// RatingToScore returns the band value of r. Invalid ratings score as D.
func RatingToScore(r models.Rating) float64 {
	if !r.Valid() {
		return ratingScores[models.RatingD]
	}
	return ratingScores[r]
}

// ScoreToRating maps a continuous synergy score onto S+..D. It is monotonic:
// a higher score never yields a worse rating.
func ScoreToRating(score float64) models.Rating {
	for _, b := range ratingBands {
		if score >= b.min {
			return b.rating
		}
	}
	return models.RatingD
}
