package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"navd/internal/server"
	"navd/internal/service"
	"navd/internal/source"
	"navd/internal/storage"
)

// purgeInterval is how often expired store entries are removed in bulk.
const purgeInterval = time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the navigation API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		upstream, err := newSource(cfg)
		if err != nil {
			return err
		}
		cached := source.NewCachedSource(upstream, cfg.Source.CacheTTL,
			source.WithCacheLogger(logger),
			source.WithSnapshotStore(store),
		)

		tracker, err := newTracker(cfg, store, logger)
		if err != nil {
			return err
		}

		app := server.New(service.NewNavigator(cached, tracker, logger), logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return app.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		})
		if p, ok := store.(storage.Purger); ok {
			g.Go(func() error { return purgeExpired(ctx, p, purgeInterval, logger) })
		}
		if cfg.Source.Watch {
			w := source.NewWatcher(cfg.Source.File, cached.Invalidate, logger)
			g.Go(func() error { return w.Run(ctx) })
		}

		logger.Info("navd started", "addr", cfg.Server.Addr, "store", cfg.Store.Driver, "watch", cfg.Source.Watch)
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Info("navd stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().String("url", "", "backend sidebar endpoint (overrides source.url)")
	serveCmd.Flags().String("file", "", "local payload file (overrides source.file)")
	serveCmd.Flags().Bool("watch", false, "reload the payload file on change")
	serveCmd.Flags().String("store", "", "store driver: memory, file or sqlite")
	serveCmd.Flags().String("data", "", "store directory")
	rootCmd.AddCommand(serveCmd)
}
