package models

import (
	"fmt"
	"strings"
)

// Rating is the ordinal teammate grade. Lower values are better.
type Rating int

const (
	RatingSPlus Rating = iota
	RatingS
	RatingA
	RatingB
	RatingC
	RatingD
)

// AllRatings lists ratings from best to worst.
var AllRatings = [...]Rating{RatingSPlus, RatingS, RatingA, RatingB, RatingC, RatingD}

var ratingNames = [...]string{"S+", "S", "A", "B", "C", "D"}

func (r Rating) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rating(%d)", int(r))
	}
	return ratingNames[r]
}

// Valid reports whether r is on the S+..D scale.
func (r Rating) Valid() bool {
	return r >= RatingSPlus && r <= RatingD
}

// SortIndex is the position of the rating in best-first order (S+ = 0).
func (r Rating) SortIndex() int {
	return int(r)
}

// Better reports whether r ranks above o.
func (r Rating) Better(o Rating) bool {
	return r < o
}

// Shift moves the rating by steps; positive steps improve it. The result is
// clamped to the ends of the scale.
func (r Rating) Shift(steps int) Rating {
	next := int(r) - steps
	if next < int(RatingSPlus) {
		next = int(RatingSPlus)
	}
	if next > int(RatingD) {
		next = int(RatingD)
	}
	return Rating(next)
}

// ParseRating converts "S+", "S", "A", ... into a Rating.
func ParseRating(s string) (Rating, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range ratingNames {
		if s == name {
			return Rating(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rating %q", s)
}

func (r Rating) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rating %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rating) UnmarshalText(b []byte) error {
	parsed, err := ParseRating(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
