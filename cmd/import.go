package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/ingest"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import species from a JSON or CSV export",
		Long: `Seed the species database from a local file instead of the network.
The format is picked by extension (.json or .csv).`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			records, err := ingest.File(args[0])
			if err != nil {
				fail("%v", err)
			}
			if len(records) == 0 {
				warn.Println("  Nothing to import")
				return
			}

			st := openStore(cfg)
			defer st.Close()

			ctx := context.Background()
			for _, rec := range records {
				if err := st.UpsertPokemon(ctx, rec); err != nil {
					fail("storing %s: %v", rec.Name, err)
				}
			}
			fmt.Printf("  %s imported %d species into %s\n", statusIcon(true), len(records), st.Path())
		},
	}
}
