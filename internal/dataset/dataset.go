// Package dataset loads the static unit dataset and serves read-only lookups over it.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meur/teamforge/internal/models"
	"github.com/tidwall/gjson"
)

// Dataset is an immutable, indexed view of every unit and its tier ratings.
type Dataset struct {
	version string
	units   []models.Unit
	byID    map[string]int
	tiers   models.TierData
}

// New builds a Dataset from already decoded units and tiers.
func New(version string, units []models.Unit, tiers models.TierData) (*Dataset, error) {
	ds := &Dataset{
		version: version,
		units:   units,
		byID:    make(map[string]int, len(units)),
		tiers:   tiers,
	}
	if ds.tiers == nil {
		ds.tiers = models.TierData{}
	}
	for i, u := range units {
		if u.ID == "" {
			return nil, fmt.Errorf("unit at index %d has no id", i)
		}
		if _, dup := ds.byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate unit id %q", u.ID)
		}
		ds.byID[u.ID] = i
	}
	return ds, nil
}

// Load reads and parses a dataset file.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a dataset document:
//
//	{"version": "...", "units": [...], "tiers": {"<unit>": {"<mode>": {"<role>": "T0"}}}}
//
// Tier tables may also be embedded per unit under "tiers".
func Parse(raw []byte) (*Dataset, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("dataset is not valid JSON")
	}
	root := gjson.ParseBytes(raw)

	unitsJSON := root.Get("units")
	if !unitsJSON.IsArray() {
		return nil, fmt.Errorf("dataset has no units array")
	}

	tiers := models.TierData{}
	var units []models.Unit
	var parseErr error
	unitsJSON.ForEach(func(_, value gjson.Result) bool {
		var u models.Unit
		if err := json.Unmarshal([]byte(value.Raw), &u); err != nil {
			parseErr = fmt.Errorf("unit %q: %w", value.Get("id").String(), err)
			return false
		}
		if embedded := value.Get("tiers"); embedded.Exists() {
			if err := mergeTiers(tiers, u.ID, embedded); err != nil {
				parseErr = err
				return false
			}
		}
		units = append(units, u)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	root.Get("tiers").ForEach(func(key, value gjson.Result) bool {
		if err := mergeTiers(tiers, key.String(), value); err != nil {
			parseErr = err
			return false
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return New(root.Get("version").String(), units, tiers)
}

func mergeTiers(into models.TierData, unitID string, value gjson.Result) error {
	var byMode map[models.Mode]map[models.Role]models.Tier
	if err := json.Unmarshal([]byte(value.Raw), &byMode); err != nil {
		return fmt.Errorf("tiers for %q: %w", unitID, err)
	}
	if into[unitID] == nil {
		into[unitID] = make(map[models.Mode]map[models.Role]models.Tier)
	}
	for mode, byRole := range byMode {
		if !mode.Valid() {
			continue
		}
		if into[unitID][mode] == nil {
			into[unitID][mode] = make(map[models.Role]models.Tier)
		}
		for role, tier := range byRole {
			into[unitID][mode][role] = tier
		}
	}
	return nil
}

// Version returns the dataset version string.
func (d *Dataset) Version() string { return d.version }

// Len returns the number of units.
func (d *Dataset) Len() int { return len(d.units) }

// Units returns every unit in dataset order. Callers must not modify the slice.
func (d *Dataset) Units() []models.Unit { return d.units }

// Unit looks a unit up by id.
func (d *Dataset) Unit(id string) (*models.Unit, bool) {
	i, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return &d.units[i], true
}

// Index returns the dataset position of id, or -1.
func (d *Dataset) Index(id string) int {
	i, ok := d.byID[id]
	if !ok {
		return -1
	}
	return i
}

// BaseID collapses multi-form units to their shared identity. Unknown ids map to themselves.
func (d *Dataset) BaseID(id string) string {
	if u, ok := d.Unit(id); ok {
		return u.CanonicalID()
	}
	return id
}

// Tiers returns the raw tier table.
func (d *Dataset) Tiers() models.TierData { return d.tiers }

// Tier returns the tier of id in mode for role, falling back to T2.
func (d *Dataset) Tier(id string, mode models.Mode, role models.Role) models.Tier {
	t, _ := d.tiers.Lookup(id, mode, role)
	return t
}

// BestTier returns the best tier of id in mode across its roles, falling back to T2.
func (d *Dataset) BestTier(id string, mode models.Mode) models.Tier {
	t, _ := d.tiers.Best(id, mode)
	return t
}
