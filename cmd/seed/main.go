// Command seed imports the azkar catalog from an .xlsx or .csv file into
// PostgreSQL and drops the cached catalog listings afterwards.
//
//	seed -file azkar.xlsx [-sheet Azkar] [-start-row 2] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/azkar-hub/azkar-hub/config"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/importer"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/persistence/postgres"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/persistence/redis"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

func main() {
	var (
		file     = flag.String("file", "", "Path to the catalog spreadsheet (.xlsx or .csv)")
		sheet    = flag.String("sheet", "", "Sheet name; defaults to the first sheet")
		startRow = flag.Int("start-row", 2, "First data row (1-based); row 1 is the header")
		dryRun   = flag.Bool("dry-run", false, "Validate rows without writing them")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := importer.Config{SheetName: *sheet, StartRow: *startRow, DryRun: *dryRun}
	if err := run(ctx, *file, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, icfg importer.Config) error {
	cfg, err := config.LoadStorage()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: cfg.Observability.LogFormat,
	}).Named("seed")
	defer func() { _ = log.Sync() }()

	db, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, postgres.DefaultPoolOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if _, err := postgres.NewMigrator(db).Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	repo := postgres.NewAzkarRepository(db)
	res, err := importer.New(repo, log).ImportFile(ctx, path, icfg)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		log.Warn("row skipped", logger.String("reason", e))
	}

	fmt.Printf("processed=%d imported=%d skipped=%d dry_run=%t\n",
		res.TotalProcessed, res.Imported, res.Skipped, icfg.DryRun)

	if icfg.DryRun || cfg.Redis.Disabled || res.Imported == 0 {
		return nil
	}

	rcfg := redis.DefaultConfig()
	rcfg.URL, rcfg.Host, rcfg.Port, rcfg.Password, rcfg.DB = cfg.Redis.URL, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB

	cache, err := redis.NewCache(ctx, rcfg)
	if err != nil {
		log.Warn("redis unavailable, cached catalog expires on its own TTL", logger.Err(err))
		return nil
	}
	defer func() { _ = cache.Close() }()

	if err := redis.NewCachedCatalog(repo, cache, cfg.Redis.CatalogTTL, log).Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate catalog cache", logger.Err(err))
	}
	return nil
}
