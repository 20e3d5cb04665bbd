// Package typechart holds the elemental type effectiveness chart used as the
// single data asset behind the layout engine, matchup display and edge styling.
// The chart maps ordered (attacker, defender) pairs to a multiplier; any pair
// it does not define is neutral.
package typechart

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
)

//go:embed typechart.toml
var embedded []byte

// Neutral is the implicit multiplier for any pair the chart does not define.
const Neutral = 1.0

// Relation is one non-neutral ordered pair between two distinct categories.
// Relations are the edge feed for the layout simulation.
type Relation struct {
	From       string
	To         string
	Multiplier float64
}

// chartFile is the on-disk shape shared by the embedded asset and user files.
type chartFile struct {
	Types         []string                      `toml:"types" json:"types"`
	Effectiveness map[string]map[string]float64 `toml:"effectiveness" json:"effectiveness"`
}

// Chart is an immutable effectiveness table over a fixed category enumeration.
type Chart struct {
	order []string
	index map[string]int
	eff   map[string]map[string]float64
}

// Load parses the embedded chart asset.
func Load() (*Chart, error) {
	var file chartFile
	if err := toml.Unmarshal(embedded, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded type chart: %w", err)
	}
	return New(file.Types, file.Effectiveness)
}

// LoadFile parses a chart from a TOML or JSON file, selected by extension.
// It allows laying out modified charts without rebuilding the binary.
func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var file chartFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML chart %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON chart %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported chart format: %s", filepath.Ext(path))
	}
	return New(file.Types, file.Effectiveness)
}

// New builds a validated chart from a category enumeration and a sparse
// effectiveness table. Neutral entries are dropped so that presence in the
// table always means a non-neutral multiplier.
func New(types []string, eff map[string]map[string]float64) (*Chart, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("chart defines no types")
	}

	c := &Chart{
		order: make([]string, 0, len(types)),
		index: make(map[string]int, len(types)),
		eff:   make(map[string]map[string]float64, len(eff)),
	}
	for _, t := range types {
		if t == "" {
			return nil, fmt.Errorf("chart contains an empty type name")
		}
		if _, dup := c.index[t]; dup {
			return nil, fmt.Errorf("duplicate type %q", t)
		}
		c.index[t] = len(c.order)
		c.order = append(c.order, t)
	}

	for attacker, row := range eff {
		if _, ok := c.index[attacker]; !ok {
			return nil, fmt.Errorf("effectiveness table for unknown type %q", attacker)
		}
		for defender, mult := range row {
			if _, ok := c.index[defender]; !ok {
				return nil, fmt.Errorf("unknown defender %q in table for %q", defender, attacker)
			}
			if !validMultiplier(mult) {
				return nil, fmt.Errorf("invalid multiplier %v for %s->%s", mult, attacker, defender)
			}
			if mult == Neutral {
				continue
			}
			if c.eff[attacker] == nil {
				c.eff[attacker] = make(map[string]float64)
			}
			c.eff[attacker][defender] = mult
		}
	}
	return c, nil
}

func validMultiplier(m float64) bool {
	switch m {
	case 0, 0.25, 0.5, 1, 2, 4:
		return true
	}
	return false
}

// Types returns the category enumeration in chart order.
func (c *Chart) Types() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Count returns the number of categories.
func (c *Chart) Count() int {
	return len(c.order)
}

// Has reports whether the chart defines the given category.
func (c *Chart) Has(t string) bool {
	_, ok := c.index[t]
	return ok
}

// Effectiveness returns the multiplier for attacker hitting defender.
// Pairs the chart does not define are neutral.
func (c *Chart) Effectiveness(attacker, defender string) float64 {
	if row, ok := c.eff[attacker]; ok {
		if mult, ok := row[defender]; ok {
			return mult
		}
	}
	return Neutral
}

// Attacking returns the non-neutral multipliers dealt by the given category.
func (c *Chart) Attacking(t string) map[string]float64 {
	out := make(map[string]float64)
	for defender, mult := range c.eff[t] {
		out[defender] = mult
	}
	return out
}

// Defending returns the non-neutral multipliers received by the given category.
func (c *Chart) Defending(t string) map[string]float64 {
	out := make(map[string]float64)
	for attacker, row := range c.eff {
		if mult, ok := row[t]; ok {
			out[attacker] = mult
		}
	}
	return out
}

// Relations returns every non-neutral ordered pair of distinct categories in
// deterministic chart order. Self pairs stay in the table for matchup display
// but are excluded here because the graph draws no self-edges.
func (c *Chart) Relations() []Relation {
	var out []Relation
	for _, from := range c.order {
		row := c.eff[from]
		if len(row) == 0 {
			continue
		}
		for _, to := range c.order {
			if to == from {
				continue
			}
			if mult, ok := row[to]; ok {
				out = append(out, Relation{From: from, To: to, Multiplier: mult})
			}
		}
	}
	return out
}
