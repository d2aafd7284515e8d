package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/willowtrellis/farmstand-api/internal/infrastructure/postgres"
	"github.com/willowtrellis/farmstand-api/internal/infrastructure/postgres/migrate"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	version := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	switch {
	case *version:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("read schema version")
		}
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
	case *down > 0:
		if err := migrate.Down(ctx, pool, *down); err != nil {
			log.Fatal().Err(err).Int("steps", *down).Msg("roll back migrations")
		}
		log.Info().Int("steps", *down).Msg("migrations rolled back")
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
		log.Info().Msg("migrations applied")
	}
}
