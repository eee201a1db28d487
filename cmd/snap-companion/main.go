package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/snaptrk/snap-companion/internal/config"
	"github.com/snaptrk/snap-companion/internal/events"
	"github.com/snaptrk/snap-companion/internal/snap/cards"
	"github.com/snaptrk/snap-companion/internal/snap/statefile"
	"github.com/snaptrk/snap-companion/internal/storage"
	"github.com/snaptrk/snap-companion/internal/tracker"
	"github.com/snaptrk/snap-companion/internal/version"
)

var (
	debugMode = flag.Bool("debug", false, "Enable verbose debug logging")
	dataDir   = flag.String("data-dir", "", "Game state root directory (auto-detected if not specified)")
	profile   = flag.String("profile", "", "Profile directory name, e.g. nvprod (required when several exist)")
	dbPath    = flag.String("db-path", "", "Path to the snapshot database (default: ~/.snap-companion/snapshots.db)")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: snap-companion [flags] <command>

Commands:
  stats     Show your best performing cards
  upgrades  Show cards you can afford to upgrade right now
  prices    Show the upgrade price ladder
  ingest    Run one ingestion cycle and exit
  watch     Watch the game's state directory and ingest on change
  migrate   Apply snapshot database schema migrations
  version   Print the application version

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	log := newLogger(*debugMode)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	applyFlags(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, cfg, log); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error().Err(err).Str("command", command).Msg("command failed")
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// applyFlags lets command-line flags override the configuration file.
func applyFlags(cfg *config.Config) {
	if *dataDir != "" {
		cfg.Game.DataDir = *dataDir
	}
	if *profile != "" {
		cfg.Game.Profile = *profile
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
}

func run(ctx context.Context, command string, cfg *config.Config, log zerolog.Logger) error {
	switch command {
	case "prices":
		// Static data, no store needed.
		displayPrices()
		return nil
	case "migrate":
		return runMigrate(cfg, log)
	case "version":
		fmt.Println("snap-companion", version.GetVersion())
		return nil
	case "stats", "upgrades", "ingest", "watch":
		return runWithTracker(ctx, command, cfg, log)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func databasePath(cfg *config.Config) (string, error) {
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	return config.DefaultDatabasePath()
}

func stateRoot(cfg *config.Config) (string, error) {
	if cfg.Game.DataDir != "" {
		return cfg.Game.DataDir, nil
	}
	return statefile.DefaultStateRoot()
}

func runMigrate(cfg *config.Config, log zerolog.Logger) error {
	path, err := databasePath(cfg)
	if err != nil {
		return err
	}
	mgr, err := storage.NewMigrationManager(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Warn().Err(err).Msg("close migration manager")
		}
	}()
	if err := mgr.Up(); err != nil {
		return err
	}
	version, dirty, err := mgr.Version()
	if err != nil {
		return err
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

func runWithTracker(ctx context.Context, command string, cfg *config.Config, log zerolog.Logger) error {
	root, err := stateRoot(cfg)
	if err != nil {
		return err
	}
	path, err := databasePath(cfg)
	if err != nil {
		return err
	}

	dbCfg := storage.DefaultConfig(path)
	dbCfg.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbCfg)
	if err != nil {
		return fmt.Errorf("open snapshot database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}()

	table, err := cards.Load()
	if err != nil {
		return err
	}

	dispatcher := events.NewDispatcher(log)
	trk, err := tracker.New(tracker.Config{
		StateRoot:  root,
		Profile:    cfg.Game.Profile,
		Store:      storage.NewSnapshotStore(db),
		Cards:      table,
		Dispatcher: dispatcher,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	if err := trk.SeedCards(ctx); err != nil {
		return fmt.Errorf("seed card table: %w", err)
	}

	switch command {
	case "stats":
		ranking, err := trk.PerformanceRanking(ctx)
		if err != nil {
			if errors.Is(err, tracker.ErrNoData) {
				fmt.Println(noDataMessage)
				return nil
			}
			return err
		}
		displayRanking(ranking)
		return nil

	case "upgrades":
		candidates, err := trk.UpgradeCandidates(ctx)
		if err != nil {
			if errors.Is(err, tracker.ErrNoData) {
				fmt.Println(noDataMessage)
				return nil
			}
			return err
		}
		balances, err := trk.Currencies(ctx)
		if err != nil && !errors.Is(err, tracker.ErrNoData) {
			return err
		}
		displayUpgrades(candidates, balances)
		return nil

	case "ingest":
		result, err := trk.Ingest(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested %s: %d new snapshots (%d stats, %d collection entries)\n",
			result.StatePath, result.Inserted, result.Stats, result.Entries)
		return nil

	case "watch":
		debounce, err := cfg.GetDebounce()
		if err != nil {
			return err
		}
		timeout, err := cfg.GetIngestTimeout()
		if err != nil {
			return err
		}
		dispatcher.Register(newConsoleObserver())
		w := tracker.NewWatcher(trk, tracker.WatcherConfig{
			Debounce:      debounce,
			MaxPerSecond:  cfg.Watch.MaxPerSecond,
			IngestTimeout: timeout,
		}, log)
		return w.Run(ctx)
	}
	return fmt.Errorf("unknown command %q", command)
}
