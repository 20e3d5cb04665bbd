// Package cmd wires the dexgraph subcommands. Commands print with fatih/color
// and exit non-zero on failure; all library logging goes through slog.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/config"
	"github.com/typedex/dexgraph/models"
	"github.com/typedex/dexgraph/store"
	"github.com/typedex/dexgraph/typechart"
)

var version = "0.3.0"

var (
	configPath string
	dbPath     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "dexgraph",
	Short: "A force-directed type chart and species pokédex",
	Long: brand.Sprint("dexgraph") + " turns type effectiveness into a living force graph.\n" +
		subtle.Sprint("Serve layout sessions over HTTP, render charts to SVG/PNG/ASCII/DOT/JSON,\nand query a local species database synced from PokéAPI."),
	Version: version,
}

func init() {
	rootCmd.SetVersionTemplate("dexgraph {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "dexgraph.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Species database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		syncCmd(),
		importCmd(),
		rankCmd(),
		similarCmd(),
		compareCmd(),
		catchCmd(),
		typesCmd(),
		versionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dexgraph version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dexgraph %s\n", version)
		},
	}
}

// loadConfig loads the configuration file and applies the persistent flag
// overrides. A missing file yields the defaults.
func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail("loading config: %v", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		fail("invalid configuration: %v", err)
	}
	return cfg
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}
	var h slog.Handler
	if cfg.Logging.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(h)
}

// openStore opens the species database read-write, creating it if needed.
func openStore(cfg config.Config) *store.Store {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		fail("opening species database: %v", err)
	}
	return st
}

// openStoreRead opens an existing species database for queries and points at
// sync when there is nothing to query yet.
func openStoreRead(cfg config.Config) *store.Store {
	path := cfg.Database.Path
	if _, err := os.Stat(path); err != nil {
		bad.Printf("dexgraph: no species database at %s\n", path)
		fmt.Println("  Populate one first:  dexgraph sync")
		os.Exit(1)
	}
	st, err := store.OpenReadOnly(path)
	if err != nil {
		fail("opening species database: %v", err)
	}
	return st
}

// overrideAddr applies an --addr flag value onto the server section.
func overrideAddr(cfg *config.Config, addr string) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		fail("invalid --addr %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		fail("invalid --addr port %q", portStr)
	}
	cfg.Server.Host = host
	cfg.Server.Port = port
}

// loadChart loads the embedded chart, or a custom one when a path is given.
func loadChart(path string) *typechart.Chart {
	var (
		c   *typechart.Chart
		err error
	)
	if path == "" {
		c, err = typechart.Load()
	} else {
		c, err = typechart.LoadFile(path)
	}
	if err != nil {
		fail("loading type chart: %v", err)
	}
	return c
}

// resolveSpecies looks a species up by numeric id or by name.
func resolveSpecies(ctx context.Context, st *store.Store, arg string) models.Pokemon {
	if id, err := strconv.Atoi(arg); err == nil {
		p, err := st.Pokemon(ctx, id)
		if err != nil {
			fail("species %d: %v", id, err)
		}
		return p
	}
	p, err := st.PokemonByName(ctx, strings.ToLower(arg))
	if err != nil {
		fail("species %q: %v", arg, err)
	}
	return p
}

func fail(format string, args ...any) {
	bad.Printf("dexgraph: "+format+"\n", args...)
	os.Exit(1)
}
