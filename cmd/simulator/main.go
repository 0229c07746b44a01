package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/config"
	"github.com/example/event-simulator/internal/logging"
	"github.com/example/event-simulator/internal/persistence/sqlite"
	"github.com/example/event-simulator/internal/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand once the root command
// has loaded the environment.
type cli struct {
	envFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCommand() *cobra.Command {
	app := &cli{}

	cmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Event schedule simulation and conflict detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&app.envFile, "env-file", ".env", "dotenv file loaded before reading SIMULATOR_* variables")

	cmd.AddCommand(
		newServeCommand(app),
		newSimulateCommand(app),
		newImportCommand(app),
		newMigrateCommand(app),
	)
	return cmd
}

// load reads the dotenv file, then the configuration. Variables already set
// in the process environment win over the file. A missing file is ignored.
func (c *cli) load(logOutput io.Writer) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.New(logOutput, cfg.LogLevel)
	return nil
}

// openStore opens the configured database and applies pending migrations.
func (c *cli) openStore(ctx context.Context) (*sqlite.Store, error) {
	store, err := sqlite.Open(c.cfg.SQLiteDSN, sqlite.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		c.closeStore(store)
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store, nil
}

func (c *cli) closeStore(store *sqlite.Store) {
	if err := store.Close(); err != nil {
		c.logger.Error("failed to close storage", "error", err)
	}
}

func (c *cli) engine() *scheduler.Engine {
	return scheduler.NewEngine(
		scheduler.WithMinBuffer(c.cfg.MinBuffer),
		scheduler.WithCateringGap(c.cfg.CateringGap),
		scheduler.WithCapacityWarningPercent(c.cfg.CapacityWarningPercent),
		scheduler.WithParallel(c.cfg.ParallelValidators),
	)
}

// simulationService wires the engine to source. A nil source serves inline
// snapshots only.
func (c *cli) simulationService(source application.SnapshotSource, opts ...application.SimulationOption) *application.SimulationService {
	base := []application.SimulationOption{
		application.WithDefaultLocale(c.cfg.DefaultLocale),
		application.WithLogger(c.logger),
	}
	return application.NewSimulationService(source, c.engine(), append(base, opts...)...)
}
