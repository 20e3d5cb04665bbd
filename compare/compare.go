// Package compare derives head-to-head statistics for two species, placing
// each stat against the whole stored population.
package compare

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/typedex/dexgraph/models"
	"github.com/typedex/dexgraph/store"
)

// StatLine is one stat row of a comparison.
type StatLine struct {
	Stat        string  `json:"stat"`
	A           int     `json:"a"`
	B           int     `json:"b"`
	Delta       int     `json:"delta"`
	APercentile float64 `json:"a_percentile"`
	BPercentile float64 `json:"b_percentile"`
	AZScore     float64 `json:"a_z_score"`
	BZScore     float64 `json:"b_z_score"`
}

// Comparison is the full head-to-head result.
type Comparison struct {
	A      models.Pokemon `json:"a"`
	B      models.Pokemon `json:"b"`
	Stats  []StatLine     `json:"stats"`
	TotalA int            `json:"total_a"`
	TotalB int            `json:"total_b"`
}

// Compare builds the comparison between two stored species. Percentiles and
// z-scores are computed over every row in the store.
func Compare(ctx context.Context, st *store.Store, aID, bID int) (*Comparison, error) {
	a, err := st.Pokemon(ctx, aID)
	if err != nil {
		return nil, err
	}
	b, err := st.Pokemon(ctx, bID)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		A:      a,
		B:      b,
		TotalA: a.Stats.Total(),
		TotalB: b.Stats.Total(),
	}

	for _, name := range models.StatNames {
		va, err := a.Stats.Get(name)
		if err != nil {
			return nil, err
		}
		vb, err := b.Stats.Get(name)
		if err != nil {
			return nil, err
		}

		values, err := st.StatValues(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("population for %s: %w", name, err)
		}
		mean, std := stat.MeanStdDev(values, nil)

		pa, err := st.StatPercentile(ctx, aID, name)
		if err != nil {
			return nil, err
		}
		pb, err := st.StatPercentile(ctx, bID, name)
		if err != nil {
			return nil, err
		}

		cmp.Stats = append(cmp.Stats, StatLine{
			Stat:        name,
			A:           va,
			B:           vb,
			Delta:       va - vb,
			APercentile: pa,
			BPercentile: pb,
			AZScore:     zScore(float64(va), mean, std),
			BZScore:     zScore(float64(vb), mean, std),
		})
	}

	return cmp, nil
}

// zScore guards the degenerate population: a flat or single-row population
// yields zero rather than dividing by zero.
func zScore(v, mean, std float64) float64 {
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return stat.StdScore(v, mean, std)
}
