package models

import (
	"fmt"
	"strings"
)

// Tier is an ordinal power band. T-1 is the best, T5 the worst; lower values are better.
type Tier int

const (
	TierMinus1 Tier = iota
	TierMinusHalf
	Tier0
	Tier0Half
	Tier1
	Tier1Half
	Tier2
	Tier3
	Tier4
	Tier5
)

// DefaultTier is used whenever a unit has no tier entry.
const DefaultTier = Tier2

// AllTiers lists tiers from best to worst.
var AllTiers = [...]Tier{TierMinus1, TierMinusHalf, Tier0, Tier0Half, Tier1, Tier1Half, Tier2, Tier3, Tier4, Tier5}

var tierNames = [...]string{"T-1", "T-0.5", "T0", "T0.5", "T1", "T1.5", "T2", "T3", "T4", "T5"}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is on the T-1..T5 scale.
func (t Tier) Valid() bool {
	return t >= TierMinus1 && t <= Tier5
}

// Better reports whether t ranks above o.
func (t Tier) Better(o Tier) bool {
	return t < o
}

// Next returns the next better tier. T-1 has none.
func (t Tier) Next() (Tier, bool) {
	if t <= TierMinus1 || !t.Valid() {
		return t, false
	}
	return t - 1, true
}

// ParseTier converts "T-1", "T0.5", ... into a Tier. A missing "T" prefix is tolerated.
func ParseTier(s string) (Tier, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "T") {
		s = "T" + s
	}
	for i, name := range tierNames {
		if s == name {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TierConfig describes how a tier is displayed.
type TierConfig struct {
	Tier  Tier   `json:"tier"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// DefaultTiers returns the standard T-1..T5 display configuration.
func DefaultTiers() []TierConfig {
	colors := [...]string{"#ff4f6d", "#ff7f7f", "#ffa07f", "#ffbf7f", "#ffdf7f", "#ffff7f", "#bfff7f", "#7fff7f", "#7fbfff", "#ff7fff"}
	out := make([]TierConfig, 0, len(AllTiers))
	for i, t := range AllTiers {
		out = append(out, TierConfig{Tier: t, Name: t.String(), Color: colors[i], Order: i})
	}
	return out
}
