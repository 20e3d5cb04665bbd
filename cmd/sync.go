package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/pokeapi"
)

func syncCmd() *cobra.Command {
	var (
		from    int
		to      int
		workers int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch species from PokéAPI into the local database",
		Long: `Fetch a species id range through a bounded worker pool and store it.

  dexgraph sync                  # Kanto dex, ids 1..151
  dexgraph sync --from 152 --to 251
  dexgraph sync --workers 8`,
		Run: func(cmd *cobra.Command, args []string) {
			if from < 1 || to < from {
				fail("invalid id range %d..%d", from, to)
			}

			cfg := loadConfig()
			logger := newLogger(cfg)

			st := openStore(cfg)
			defer st.Close()

			if workers == 0 {
				workers = cfg.PokeAPI.Workers
			}
			client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout, cfg.PokeAPI.SpriteTTL)

			ids := make([]int, 0, to-from+1)
			for id := from; id <= to; id++ {
				ids = append(ids, id)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("  Syncing species %s with %d workers\n\n", brand.Sprintf("%d..%d", from, to), workers)
			res := pokeapi.Sync(ctx, client, st, ids, workers, logger)

			fmt.Printf("  %s fetched %d of %d species into %s\n", statusIcon(len(res.Failed) == 0), res.Fetched, len(ids), st.Path())
			if len(res.Failed) == 0 {
				return
			}

			failed := make([]int, 0, len(res.Failed))
			for id := range res.Failed {
				failed = append(failed, id)
			}
			sort.Ints(failed)
			shown := failed
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for _, id := range shown {
				warn.Printf("    id %d: %v\n", id, res.Failed[id])
			}
			if len(failed) > len(shown) {
				subtle.Printf("    ... and %d more\n", len(failed)-len(shown))
			}
			os.Exit(1)
		},
	}

	cmd.Flags().IntVar(&from, "from", 1, "First species id")
	cmd.Flags().IntVar(&to, "to", 151, "Last species id")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent fetches (default from config)")

	return cmd
}
