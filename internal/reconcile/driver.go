// Package reconcile implements the schedule reconciliation pass: matching a
// freshly fetched schedule against the stored, date-ordered game list and
// applying insert, update-in-place, or replace-and-reinsert mutations while
// keeping each home game's promotion set consistent.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/localtime"
	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/models"
)

// Options identify the followed team.
type Options struct {
	TeamID           int    // feed team id for the schedule endpoint
	TeamAbbreviation string // marks home games, which carry promotions
	TeamFullName     string // standings / promo-refresh lookup key
}

// Driver runs reconciliation passes. It owns no shared mutable state: each
// pass loads its own stored-game window and threads an explicit cursor
// through the matcher, so serialized passes are fully reproducible.
type Driver struct {
	feed     Feed
	store    Store
	teamID   int
	teamAbbr string
	teamName string

	now func() time.Time // injectable for tests
}

func NewDriver(feed Feed, store Store, opts Options) *Driver {
	return &Driver{
		feed:     feed,
		store:    store,
		teamID:   opts.TeamID,
		teamAbbr: opts.TeamAbbreviation,
		teamName: opts.TeamFullName,
		now:      time.Now,
	}
}

// seasonWindow computes the schedule query window: the whole regular season
// (March 1 through November 30) for a seed, or today through season end for
// an update.
func seasonWindow(now time.Time, remainingOnly bool) (startDate, endDate string, year int) {
	year = now.Year()
	endDate = fmt.Sprintf("%d-11-30", year)
	if remainingOnly {
		startDate = now.Format(localtime.YMDFormat)
	} else {
		startDate = fmt.Sprintf("%d-03-01", year)
	}
	return startDate, endDate, year
}

// RunPass executes one full reconciliation pass: fetch the schedule, load the
// stored window, reconcile day by day, then refresh team records. With
// remainingOnly the window starts today instead of at the season opener.
//
// Failure policy: a transport error aborts the pass before any mutation; a
// malformed payload shape is logged and soft-fails (the display layer keeps
// the last reconciled state); malformed dates inside the payload are
// feed-contract violations and propagate as hard errors.
func (d *Driver) RunPass(ctx context.Context, remainingOnly bool) error {
	started := d.now()
	startDate, endDate, year := seasonWindow(started.UTC(), remainingOnly)

	log.Info().
		Str("start", startDate).
		Str("end", endDate).
		Bool("remaining_only", remainingOnly).
		Msg("Starting schedule reconciliation pass")

	schedule, err := d.feed.FetchSchedule(ctx, client.ScheduleQuery{
		Season:    year,
		StartDate: startDate,
		EndDate:   endDate,
		TeamID:    d.teamID,
	})
	if err != nil {
		if errors.Is(err, client.ErrInvalidShape) {
			log.Warn().Err(err).Msg("Schedule payload malformed, skipping pass")
			metrics.ReconciliationPassesTotal.WithLabelValues("shape_error").Inc()
			return nil
		}
		metrics.ReconciliationPassesTotal.WithLabelValues("fetch_error").Inc()
		return fmt.Errorf("schedule fetch failed: %w", err)
	}

	startBoundary, err := localtime.ParseYMD(startDate)
	if err != nil {
		return fmt.Errorf("malformed start date %q: %w", startDate, err)
	}
	localBoundary := localtime.ToPacific(startBoundary, true)

	stored, err := d.store.ListGamesFrom(ctx, localBoundary)
	if err != nil {
		metrics.ReconciliationPassesTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("loading stored games: %w", err)
	}
	log.Info().Int("stored_games", len(stored)).Msg("Loaded stored game window")

	st := &passState{games: stored}
	for dayNum, day := range schedule.Dates {
		if len(day.Games) == 0 {
			// Not expected from the feed, but cheap to tolerate.
			log.Warn().Str("date", day.Date).Msg("Date without any games found, skipping")
			continue
		}
		if err := d.processDay(ctx, st, dayNum, day); err != nil {
			metrics.ReconciliationPassesTotal.WithLabelValues("error").Inc()
			return err
		}
	}

	// A full pass refreshes standings as its terminal side effect.
	if err := d.UpdateTeamRecords(ctx); err != nil {
		metrics.ReconciliationPassesTotal.WithLabelValues("standings_error").Inc()
		return err
	}

	metrics.ReconciliationPassesTotal.WithLabelValues("success").Inc()
	metrics.ReconciliationPassDuration.Observe(time.Since(started).Seconds())
	log.Info().
		Int("games_processed", st.cursor).
		Dur("duration", time.Since(started)).
		Msg("Reconciliation pass complete")
	return nil
}

// processDay reconciles all games of one feed day. Teams are resolved once
// from the day's first game and shared across a double-header.
func (d *Driver) processDay(ctx context.Context, st *passState, dayNum int, day client.GameDate) error {
	first := day.Games[0]
	awayTeam, err := d.ensureTeam(ctx, first.Teams.Away)
	if err != nil {
		return err
	}
	homeTeam, err := d.ensureTeam(ctx, first.Teams.Home)
	if err != nil {
		return err
	}

	log.Info().
		Int("day", dayNum+1).
		Str("date", day.Date).
		Str("away", awayTeam.FullName()).
		Str("home", homeTeam.FullName()).
		Bool("double_header", len(day.Games) > 1).
		Msg("Processing game day")

	for i := range day.Games {
		if err := d.matchGame(ctx, st, &day.Games[i], homeTeam, awayTeam); err != nil {
			return err
		}
	}
	return nil
}

// ensureTeam looks a team up by club name, creating it from the feed payload
// on first reference.
func (d *Driver) ensureTeam(ctx context.Context, side client.GameSide) (*models.Team, error) {
	team, err := d.store.TeamByName(ctx, side.Team.ClubName)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up team %q: %w", side.Team.ClubName, err)
	}

	team = &models.Team{
		Name:         side.Team.ClubName,
		City:         side.Team.FranchiseName,
		LogoURL:      fmt.Sprintf(client.LogoURLFormat, side.Team.ID),
		Abbreviation: side.Team.Abbreviation,
		Wins:         side.LeagueRecord.Wins,
		Losses:       side.LeagueRecord.Losses,
	}
	if err := d.store.SaveTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("saving team %q: %w", team.FullName(), err)
	}
	log.Info().Str("team", team.FullName()).Int("id", team.ID).Msg("Created team on first reference")
	return team, nil
}
