package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/models"
)

func rankCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rank <stat>",
		Short: "Rank stored species by a base stat",
		Long:  "Rank stored species by one of: " + strings.Join(models.StatNames, ", "),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			stat := strings.ToLower(args[0])
			cfg := loadConfig()

			st := openStoreRead(cfg)
			defer st.Close()

			ranked, err := st.RankByStat(context.Background(), stat, limit)
			if err != nil {
				fail("%v", err)
			}
			if len(ranked) == 0 {
				warn.Println("  No species stored yet. Run: dexgraph sync")
				return
			}

			rows := make([][]string, 0, len(ranked))
			for _, r := range ranked {
				rows = append(rows, []string{
					strconv.Itoa(r.Rank),
					r.Name,
					strings.Join(r.Types, "/"),
					strconv.Itoa(r.Value),
					strconv.Itoa(r.Stats.Total()),
				})
			}
			table([]string{"#", "Name", "Types", stat, "Total"}, rows)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "How many rows to show")

	return cmd
}
