package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/compare"
)

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Head-to-head stat comparison of two species",
		Long: `Compare two stored species stat by stat, with each value's percentile
and z-score over the whole database.

  dexgraph compare pikachu raichu
  dexgraph compare 3 6`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			st := openStoreRead(cfg)
			defer st.Close()

			ctx := context.Background()
			a := resolveSpecies(ctx, st, args[0])
			b := resolveSpecies(ctx, st, args[1])

			cmp, err := compare.Compare(ctx, st, a.ID, b.ID)
			if err != nil {
				fail("%v", err)
			}

			fmt.Printf("  %s = %s %s\n", brand.Sprint("a"), cmp.A.Name, subtle.Sprintf("(%s)", strings.Join(cmp.A.Types, "/")))
			fmt.Printf("  %s = %s %s\n\n", brand.Sprint("b"), cmp.B.Name, subtle.Sprintf("(%s)", strings.Join(cmp.B.Types, "/")))

			subtle.Printf("  %-11s %5s %5s %6s  %7s %7s %7s %7s\n", "stat", "a", "b", "delta", "a pctl", "b pctl", "a z", "b z")
			for _, line := range cmp.Stats {
				fmt.Printf("  %-11s %5d %5d %s  %7.1f %7.1f %7.2f %7.2f\n",
					line.Stat, line.A, line.B, deltaCell(line.Delta, 6),
					line.APercentile, line.BPercentile, line.AZScore, line.BZScore)
			}
			fmt.Printf("  %-11s %5d %5d %s\n", "total", cmp.TotalA, cmp.TotalB, deltaCell(cmp.TotalA-cmp.TotalB, 6))
		},
	}
}
