package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/metrics"
)

var mlbDivisions = map[int]string{
	200: "American League West",
	201: "American League East",
	202: "American League Central",
	203: "National League West",
	204: "National League East",
	205: "National League Central",
}

// UpdateTeamRecords fetches division standings and overwrites each stored
// team's win-loss record. A record missing its name or win/loss fields, or
// naming a team we have never stored, is logged and skipped; a single bad
// record never aborts the batch. The fetch itself failing does.
func (d *Driver) UpdateTeamRecords(ctx context.Context) error {
	log.Info().Msg("Updating all team records")

	standings, err := d.feed.FetchStandings(ctx)
	if err != nil {
		return fmt.Errorf("standings fetch failed: %w", err)
	}
	if len(standings.Records) == 0 {
		log.Warn().Msg("No team records found in standings")
	}

	for _, division := range standings.Records {
		d.updateDivision(ctx, division)
	}
	return nil
}

func (d *Driver) updateDivision(ctx context.Context, division client.DivisionRecord) {
	if division.Division.ID == nil {
		log.Warn().Msg("Standings record missing division id, skipping")
		return
	}

	name, known := mlbDivisions[*division.Division.ID]
	if !known {
		log.Warn().Int("division_id", *division.Division.ID).Msg("Unknown division being updated")
	} else {
		log.Info().Str("division", name).Msg("Updating division standings")
	}

	for _, record := range division.TeamRecords {
		d.updateTeamRecord(ctx, record)
	}
}

func (d *Driver) updateTeamRecord(ctx context.Context, record client.TeamRecord) {
	name := record.Team.Name
	if name == "" {
		log.Warn().Msg("Standings record missing team name, skipping")
		return
	}
	if record.Wins == nil || record.Losses == nil {
		log.Warn().Str("team", name).Msg("Standings record missing wins or losses, skipping")
		return
	}

	team, err := d.store.TeamByFullName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		log.Warn().Str("team", name).Msg("No stored team with that name, skipping")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("team", name).Msg("Team lookup failed, skipping")
		return
	}

	if err := d.store.UpdateTeamRecord(ctx, team.ID, *record.Wins, *record.Losses); err != nil {
		log.Error().Err(err).Str("team", name).Msg("Failed to update team record")
		return
	}

	metrics.TeamRecordUpdatesTotal.Inc()
	log.Info().
		Str("team", name).
		Int("wins", *record.Wins).
		Int("losses", *record.Losses).
		Msg("Team record updated")
}
