// Command manualseed runs one ingestion job from the command line,
// outside the scheduler. Used for the first database seed and for
// forcing a refresh without waiting for the nightly cron.
package main

import (
	"context"
	"flag"
	"strconv"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/config"
	"mlbschedule/ingestion/internal/reconcile"
	"mlbschedule/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	job := flag.String("job", "seed", "job to run: seed, update, standings, promotions")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	feed := client.NewClient(cfg.MLBAPIBaseURL, cfg.MLBAPITimeout)
	driver := reconcile.NewDriver(feed, repository.NewStore(db), reconcile.Options{
		TeamID:           cfg.TeamID,
		TeamAbbreviation: cfg.TeamAbbreviation,
		TeamFullName:     cfg.TeamFullName,
	})

	switch *job {
	case "seed":
		// Full regular-season window, March through November.
		log.Info().Msg("Running full-season schedule seed...")
		err = driver.RunPass(ctx, false)
	case "update":
		// Today through the end of the season, same as the nightly job.
		log.Info().Msg("Running remaining-season schedule update...")
		err = driver.RunPass(ctx, true)
	case "standings":
		log.Info().Msg("Running standings refresh...")
		err = driver.UpdateTeamRecords(ctx)
	case "promotions":
		log.Info().Msg("Running promotions refresh...")
		err = driver.RefreshPromotions(ctx)
	default:
		log.Fatal().Str("job", *job).Msg("Unknown job")
	}

	if err != nil {
		log.Fatal().Err(err).Str("job", *job).Msg("Job failed")
	}
	log.Info().Str("job", *job).Msg("Job complete")
}
