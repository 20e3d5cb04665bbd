package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func similarCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <name|id>",
		Short: "Find species with the closest stat spread",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			st := openStoreRead(cfg)
			defer st.Close()

			ctx := context.Background()
			ref := resolveSpecies(ctx, st, args[0])

			similar, err := st.MostSimilar(ctx, ref.ID, limit)
			if err != nil {
				fail("%v", err)
			}
			if len(similar) == 0 {
				warn.Println("  Nothing to compare against yet. Run: dexgraph sync")
				return
			}

			fmt.Printf("  Closest stat spreads to %s %s\n\n", brand.Sprint(ref.Name), subtle.Sprintf("(total %d)", ref.Stats.Total()))
			rows := make([][]string, 0, len(similar))
			for _, s := range similar {
				rows = append(rows, []string{
					s.Name,
					strings.Join(s.Types, "/"),
					strconv.Itoa(s.Stats.Total()),
					strconv.Itoa(s.Distance),
				})
			}
			table([]string{"Name", "Types", "Total", "Distance"}, rows)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "How many rows to show")

	return cmd
}
