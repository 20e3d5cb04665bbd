package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/catchrate"
)

func catchCmd() *cobra.Command {
	var (
		hp     float64
		ball   string
		status string
	)

	cmd := &cobra.Command{
		Use:   "catch <name|id>",
		Short: "Compute the capture probability for a species",
		Long: `Run the shake-check capture formula for a stored species.

  dexgraph catch snorlax
  dexgraph catch snorlax --hp 10 --status sleep --ball ultra`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			st := openStoreRead(cfg)
			defer st.Close()

			p := resolveSpecies(context.Background(), st, args[0])

			res := catchrate.Calculate(catchrate.Attempt{
				BaseRate:   p.CaptureRate,
				HPFraction: hp / 100,
				Status:     status,
				Ball:       ball,
			})

			fmt.Printf("  %s %s\n\n", brand.Sprint(p.Name), subtle.Sprintf("(base rate %d)", p.CaptureRate))
			fmt.Printf("  HP:            %.0f%%\n", hp)
			fmt.Printf("  Status:        %s\n", status)
			fmt.Printf("  Ball:          %s\n\n", ball)
			fmt.Printf("  Modified rate: %.1f\n", res.Modified)
			fmt.Printf("  Shake value:   %d\n", res.Shake)
			if res.Guaranteed {
				fmt.Printf("  Capture:       %s guaranteed\n", statusIcon(true))
			} else {
				fmt.Printf("  Capture:       %s per ball\n", probabilityCell(res.Probability))
			}
		},
	}

	cmd.Flags().Float64Var(&hp, "hp", 100, "Current HP as a percentage")
	cmd.Flags().StringVar(&ball, "ball", catchrate.BallPoke, "Ball: "+strings.Join(catchrate.Balls(), ", "))
	cmd.Flags().StringVar(&status, "status", catchrate.StatusNone, "Status: "+strings.Join(catchrate.Statuses(), ", "))

	return cmd
}
