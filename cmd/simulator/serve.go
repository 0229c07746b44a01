package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/event-simulator/internal/application"
	httptransport "github.com/example/event-simulator/internal/http"
	"github.com/example/event-simulator/internal/persistence/sqlite"
)

const (
	resultCacheEntries = 256
	shutdownTimeout    = 10 * time.Second
)

func newServeCommand(app *cli) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				app.cfg.HTTPPort = port
			}
			return app.serve(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides SIMULATOR_HTTP_PORT)")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer c.closeStore(store)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.cfg.HTTPPort),
		Handler:           c.apiHandler(store, prometheus.NewRegistry()),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		c.logger.Info("simulation API listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.logger.Info("shutting down simulation API")
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// apiHandler builds the HTTP surface over store and registers every
// collector with reg.
func (c *cli) apiHandler(store *sqlite.Store, reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := c.simulationService(
		newStoreSnapshotSource(store),
		application.WithResultCache(c.cfg.ResultCacheTTL, resultCacheEntries),
		application.WithMetrics(application.NewMetrics(reg)),
	)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Simulations:     httptransport.NewSimulationHandler(service, c.logger),
		Health:          httptransport.NewHealthHandler(store, c.logger),
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Instrumentation: httptransport.NewHTTPMetrics(reg),
		Middleware:      []func(http.Handler) http.Handler{httptransport.RequestLogger(c.logger)},
	})
}
