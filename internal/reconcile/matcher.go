package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/localtime"
	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/models"
)

// passState carries the stored, date-ordered game list and the season game
// cursor through one reconciliation pass. The list invariant: the Nth game of
// the season chronologically sits at index N-1, so each matched feed game
// advances the cursor by one and later feed days stay aligned with later
// stored indexes. Splices must preserve the ordering for that to hold.
type passState struct {
	games  []*models.Game
	cursor int
}

func (st *passState) expected() *models.Game {
	if st.cursor < len(st.games) {
		return st.games[st.cursor]
	}
	return nil
}

// matchGame reconciles one fetched game against the stored list position the
// cursor points at. Classification uses the legacy structural rule
// (models.Game.Matches) rather than the stable gamePk, matching rows that
// predate the key; see models.Game.SharesGameKey for the eventual stronger
// identity.
func (d *Driver) matchGame(ctx context.Context, st *passState, feedGame *client.ScheduleGame, home, away *models.Team) error {
	date, err := localtime.ParseUTC(feedGame.GameDate)
	if err != nil {
		return fmt.Errorf("malformed gameDate %q: %w", feedGame.GameDate, err)
	}

	candidate := &models.Game{
		GameKey:          feedGame.GamePk,
		Date:             date,
		SeriesGameNumber: feedGame.SeriesGameNumber,
		SeriesGameCount:  feedGame.GamesInSeries,
		HomeTeamID:       home.ID,
		AwayTeamID:       away.ID,
	}

	// A resumedFrom entry starting one local day after its original date is
	// the feed's copy of a suspended game; the stored row for the original
	// date already covers it, so saving the copy would duplicate the game.
	// The cursor does not advance: the copy has no stored counterpart.
	if st.cursor > 0 && feedGame.ResumedFrom != "" {
		resumed, err := localtime.ParseUTC(feedGame.ResumedFrom)
		if err != nil {
			return fmt.Errorf("malformed resumedFrom %q: %w", feedGame.ResumedFrom, err)
		}
		if localtime.ToPacific(resumed, true).Day()+1 == candidate.LocalDate().Day() {
			log.Info().
				Int64("game_key", candidate.GameKey).
				Str("resumed_from", feedGame.ResumedFrom).
				Msg("Skipping resumed copy of a suspended game")
			metrics.SuspendedGamesSkippedTotal.Inc()
			return nil
		}
	}

	// Away games never carry promotions for this organization.
	var promos []*models.Promotion
	if home.Abbreviation == d.teamAbbr {
		promos = buildPromotions(feedGame.Promotions)
	}

	expected := st.expected()
	if expected == nil {
		// Brand-new trailing game.
		log.Info().Int64("game_key", candidate.GameKey).Msg("No stored game at this index, saving as new")
		if err := d.createGame(ctx, candidate, promos); err != nil {
			return err
		}
		st.cursor++
		return nil
	}

	// Compare real timestamps, not display strings, to decide ordering.
	switch {
	case candidate.Date.Before(expected.Date):
		log.Info().
			Int64("game_key", candidate.GameKey).
			Time("fetched", candidate.Date).
			Time("stored", expected.Date).
			Msg("Game moved up")
		if expected.SeriesGameNumber == expected.SeriesGameCount {
			log.Debug().Msg("Likely just an earlier start time")
		}
		if home.Abbreviation == d.teamAbbr {
			if err := d.findGameByPromos(ctx, st, candidate, promos); err != nil {
				return err
			}
		}
	case candidate.Date.After(expected.Date):
		log.Info().
			Int64("game_key", candidate.GameKey).
			Time("fetched", candidate.Date).
			Time("stored", expected.Date).
			Msg("Game postponed or suspended")
		if expected.SeriesGameNumber == expected.SeriesGameCount {
			log.Debug().Msg("Likely just a later start time")
		}
		if expected.SeriesGameCount > candidate.SeriesGameCount {
			log.Debug().Msg("Series shortened, full reschedule likely")
		}
		if home.Abbreviation == d.teamAbbr {
			if err := d.findGameByPromos(ctx, st, candidate, promos); err != nil {
				return err
			}
		}
	}

	// Re-read the cursor slot: a splice above may have placed the candidate
	// there.
	current := st.games[st.cursor]
	switch {
	case expected.Matches(current):
		// No structural change happened at this index.
		if candidate.Matches(expected) {
			if !PromoSetsMatch(expected.Promotions, promos) {
				log.Info().Int("game_id", expected.ID).Msg("Promotion sets differ, replacing stored set")
				if err := d.replacePromotions(ctx, expected, promos); err != nil {
					return err
				}
			}
		} else {
			// Some field changed under the identity rule; the stored row is
			// stale. Replace it at this index with the candidate.
			if err := d.spliceGame(ctx, st, candidate, st.cursor); err != nil {
				return err
			}
			if err := d.createGame(ctx, candidate, promos); err != nil {
				return err
			}
		}
	case candidate.Matches(current):
		// The splice placed the candidate at the cursor; persist it now.
		log.Info().Int64("game_key", candidate.GameKey).Msg("Stored list now matches fetched game, saving")
		if err := d.createGame(ctx, candidate, promos); err != nil {
			return err
		}
	}

	st.cursor++
	return nil
}

// findGameByPromos searches forward from the cursor for the stored game the
// candidate really is, identified by a matching promotion set. The search is
// bounded by the next series start (seriesGameNumber == 1): a rescheduled
// game never jumps its own series under this heuristic. On a hit the stored
// game is removed and the candidate spliced in at the cursor; no hit leaves
// the list untouched and classification proceeds against the stale slot,
// accepted as best effort.
func (d *Driver) findGameByPromos(ctx context.Context, st *passState, candidate *models.Game, promos []*models.Promotion) error {
	for idx := st.cursor + 1; idx < len(st.games) && st.games[idx].SeriesGameNumber != 1; idx++ {
		potential := st.games[idx]
		log.Debug().
			Int("index", idx).
			Int("series_game", potential.SeriesGameNumber).
			Msg("Checking potential original game")
		if PromoSetsMatch(potential.Promotions, promos) {
			return d.spliceGame(ctx, st, candidate, idx)
		}
	}
	return nil
}

// spliceGame deletes the stored game at deleteIdx (promotions first, then the
// row) and reinserts the candidate at the cursor so the list stays ordered by
// start timestamp. The candidate itself is persisted later by the caller.
func (d *Driver) spliceGame(ctx context.Context, st *passState, candidate *models.Game, deleteIdx int) error {
	outdated := st.games[deleteIdx]
	log.Info().
		Int("index", deleteIdx).
		Int("game_id", outdated.ID).
		Msg("Deleting matching outdated game")

	if err := d.store.DeletePromotions(ctx, outdated.ID); err != nil {
		return fmt.Errorf("deleting promotions for game %d: %w", outdated.ID, err)
	}
	if err := d.store.DeleteGame(ctx, outdated); err != nil {
		return fmt.Errorf("deleting game %d: %w", outdated.ID, err)
	}

	st.games = append(st.games[:deleteIdx], st.games[deleteIdx+1:]...)
	st.games = append(st.games, nil)
	copy(st.games[st.cursor+1:], st.games[st.cursor:])
	st.games[st.cursor] = candidate

	metrics.GamesReplacedTotal.Inc()
	return nil
}

func (d *Driver) createGame(ctx context.Context, g *models.Game, promos []*models.Promotion) error {
	if err := d.store.SaveGame(ctx, g); err != nil {
		return fmt.Errorf("saving game %d: %w", g.GameKey, err)
	}
	if err := d.store.SavePromotions(ctx, g.ID, promos); err != nil {
		return fmt.Errorf("saving promotions for game %d: %w", g.ID, err)
	}
	g.Promotions = promos
	metrics.GamesSavedTotal.Inc()
	return nil
}

func (d *Driver) replacePromotions(ctx context.Context, g *models.Game, promos []*models.Promotion) error {
	if err := d.store.DeletePromotions(ctx, g.ID); err != nil {
		return fmt.Errorf("deleting promotions for game %d: %w", g.ID, err)
	}
	if err := d.store.SavePromotions(ctx, g.ID, promos); err != nil {
		return fmt.Errorf("saving promotions for game %d: %w", g.ID, err)
	}
	g.Promotions = promos
	metrics.PromotionReplacementsTotal.Inc()
	return nil
}

func buildPromotions(entries []client.PromotionEntry) []*models.Promotion {
	promos := make([]*models.Promotion, 0, len(entries))
	for _, entry := range entries {
		thumbnail := entry.ImageURL
		if thumbnail == "" {
			thumbnail = "undefined"
		}
		promos = append(promos, &models.Promotion{
			Name:         entry.Name,
			ThumbnailURL: thumbnail,
			OfferType:    entry.OfferType,
		})
	}
	return promos
}
