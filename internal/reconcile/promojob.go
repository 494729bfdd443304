package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/localtime"
)

// RefreshPromotions re-fetches the remaining schedule and reconciles each
// home game's promotion set against the stored copy, without touching the
// games themselves. Promotions are announced and revised on a different
// cadence than the schedule, so this runs as its own lighter job.
//
// Per-record failures (no stored game at the fetched timestamp, lookup
// errors) are logged and skipped; the batch runs to completion.
func (d *Driver) RefreshPromotions(ctx context.Context) error {
	log.Info().Msg("Refreshing promotions for remaining home games")

	startDate, endDate, year := seasonWindow(d.now().UTC(), true)
	schedule, err := d.feed.FetchSchedule(ctx, client.ScheduleQuery{
		Season:    year,
		StartDate: startDate,
		EndDate:   endDate,
		TeamID:    d.teamID,
	})
	if err != nil {
		if errors.Is(err, client.ErrInvalidShape) {
			log.Warn().Err(err).Msg("Schedule payload malformed, skipping promotions refresh")
			return nil
		}
		return err
	}

	for _, day := range schedule.Dates {
		for i := range day.Games {
			d.refreshGamePromotions(ctx, &day.Games[i])
		}
	}
	return nil
}

func (d *Driver) refreshGamePromotions(ctx context.Context, feedGame *client.ScheduleGame) {
	// Only home games carry promotions for this organization.
	if !strings.EqualFold(feedGame.Teams.Home.Team.Name, d.teamName) {
		return
	}

	date, err := localtime.ParseUTC(feedGame.GameDate)
	if err != nil {
		log.Warn().Str("game_date", feedGame.GameDate).Msg("Malformed game date, skipping promotions")
		return
	}

	game, err := d.store.GameByDate(ctx, date)
	if errors.Is(err, ErrNotFound) {
		log.Warn().Str("game_date", feedGame.GameDate).Msg("No stored game with that UTC date")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("game_date", feedGame.GameDate).Msg("Game lookup failed, skipping promotions")
		return
	}

	fetched := buildPromotions(feedGame.Promotions)
	if PromoSetsMatch(game.Promotions, fetched) {
		return
	}
	if err := d.replacePromotions(ctx, game, fetched); err != nil {
		log.Error().Err(err).Int("game_id", game.ID).Msg("Failed to replace promotions")
		return
	}
	log.Info().Int("game_id", game.ID).Int("promos", len(fetched)).Msg("Promotions replaced")
}
