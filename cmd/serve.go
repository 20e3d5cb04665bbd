package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/typedex/dexgraph/config"
	"github.com/typedex/dexgraph/pokeapi"
	"github.com/typedex/dexgraph/server"
	"github.com/typedex/dexgraph/session"
	"github.com/typedex/dexgraph/typechart"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dexgraph HTTP API",
		Long: `Serve layout sessions, species queries and renders over HTTP.

The configuration file is watched while the server runs; edits to the
physics section retune every live session without a restart.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if addr != "" {
				overrideAddr(&cfg, addr)
				if err := cfg.Validate(); err != nil {
					fail("invalid configuration: %v", err)
				}
			}

			logger := newLogger(cfg)
			slog.SetDefault(logger)

			st := openStore(cfg)
			defer st.Close()

			chart, err := typechart.Load()
			if err != nil {
				fail("loading type chart: %v", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mgr := session.NewManager(chart, logger, session.ManagerOptions{
				IdleTTL:  cfg.Physics.IdleTTL,
				TickRate: cfg.Physics.TickRate,
				AutoTick: cfg.Physics.AutoTick,
			})
			mgr.Retune(cfg.Physics.Profile, cfg.Physics.BuildProfile())
			go mgr.Start(ctx)

			client := pokeapi.NewClient(cfg.PokeAPI.BaseURL, cfg.PokeAPI.Timeout, cfg.PokeAPI.SpriteTTL)

			srv := server.New(mgr, st, client, chart, logger, server.Options{
				Addr:         cfg.Server.Addr(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
				DefaultDrift: cfg.Physics.Drift,
			})

			if err := config.Watch(ctx, configPath, logger, func(next config.Config) {
				mgr.Retune(next.Physics.Profile, next.Physics.BuildProfile())
			}); err != nil {
				logger.Warn("config watch disabled", "error", err)
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run() }()

			fmt.Printf("  dexgraph API listening on %s\n", brand.Sprint(cfg.Server.Addr()))

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutCtx); err != nil {
					fail("shutdown: %v", err)
				}
			case err := <-errCh:
				if err != nil {
					fail("server: %v", err)
				}
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address host:port (overrides config)")
	return cmd
}
