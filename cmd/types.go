package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/typechart"
)

func typesCmd() *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "types [type]",
		Short: "Show the type effectiveness chart",
		Long: `Print the full effectiveness matrix, or one type's matchups.

  dexgraph types            # attacker rows, defender columns
  dexgraph types ghost      # everything ghost hits and is hit by`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			chart := loadChart(chartPath)

			if len(args) == 1 {
				printTypeDetail(chart, strings.ToLower(args[0]))
				return
			}
			printMatrix(chart)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "Load a custom chart file (.toml or .json)")

	return cmd
}

func printMatrix(c *typechart.Chart) {
	types := c.Types()

	header := "  " + fmt.Sprintf("%-10s", "")
	for _, def := range types {
		header += fmt.Sprintf("%-4s", abbrev(def))
	}
	subtle.Println(header)

	for _, att := range types {
		line := "  " + fmt.Sprintf("%-10s", att)
		for _, def := range types {
			m := c.Effectiveness(att, def)
			line += multiplierCell(multiplierText(m), 4, m)
		}
		fmt.Println(line)
	}

	fmt.Println()
	subtle.Println("  rows attack, columns defend    2/4 super    1/2,1/4 resisted    0 immune    . neutral")
}

func abbrev(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

func printTypeDetail(c *typechart.Chart, t string) {
	if !c.Has(t) {
		fail("unknown type %q (have: %s)", t, strings.Join(c.Types(), ", "))
	}

	fmt.Printf("  %s\n\n", brand.Sprint(t))
	printRelations("attacking", c.Attacking(t))
	fmt.Println()
	printRelations("defending", c.Defending(t))
}

func printRelations(title string, rel map[string]float64) {
	subtle.Printf("  %s\n", title)
	if len(rel) == 0 {
		fmt.Println("    all neutral")
		return
	}
	names := make([]string, 0, len(rel))
	for name := range rel {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := rel[name]
		fmt.Printf("    %-10s %s\n", name, multiplierCell(fmt.Sprintf("%gx", m), 6, m))
	}
}
