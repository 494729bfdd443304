package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/models"
	"mlbschedule/ingestion/internal/reconcile"
)

// GameRepository handles game database operations. Games carry their
// promotions on every read: the reconciliation matcher identifies home games
// by promo set, so a game without its promotions hydrated is useless to it.
type GameRepository struct {
	db *Database
}

const gameColumns = `id, game_key, game_date, series_game_number, series_game_count,
       home_team_id, away_team_id, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.GameKey, &game.Date, &game.SeriesGameNumber, &game.SeriesGameCount,
		&game.HomeTeamID, &game.AwayTeamID, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// DB timestamps come back in the session zone; the model works in UTC.
	game.Date = game.Date.UTC()
	return &game, nil
}

// Create inserts a new game
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			game_key, game_date, series_game_number, series_game_count,
			home_team_id, away_team_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.GameKey, game.Date, game.SeriesGameNumber, game.SeriesGameCount,
		game.HomeTeamID, game.AwayTeamID,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		metrics.RecordDBQuery("insert", "games", "error")
		return fmt.Errorf("failed to create game: %w", err)
	}
	metrics.RecordDBQuery("insert", "games", "success")

	log.Debug().
		Int("id", game.ID).
		Int64("game_key", game.GameKey).
		Time("date", game.Date).
		Msg("Game created")

	return nil
}

// Delete removes a game row. Its promotions must be deleted first.
func (r *GameRepository) Delete(ctx context.Context, game *models.Game) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, game.ID)
	if err != nil {
		metrics.RecordDBQuery("delete", "games", "error")
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("game not found: id=%d: %w", game.ID, reconcile.ErrNotFound)
	}
	metrics.RecordDBQuery("delete", "games", "success")

	log.Debug().Int("id", game.ID).Int64("game_key", game.GameKey).Msg("Game deleted")
	return nil
}

// ListFrom retrieves games whose Pacific local start is at or after localFrom,
// ordered by start timestamp ascending, with promotions hydrated. This is the
// stored window one reconciliation pass walks.
func (r *GameRepository) ListFrom(ctx context.Context, localFrom time.Time) ([]*models.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE game_date - INTERVAL '7 hours' >= $1
		ORDER BY game_date
	`, gameColumns)

	games, err := r.list(ctx, query, localFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to list games from %s: %w", localFrom, err)
	}
	if err := r.attachPromotions(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetByDate retrieves the game with exactly the given UTC start timestamp,
// with promotions hydrated.
func (r *GameRepository) GetByDate(ctx context.Context, utc time.Time) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE game_date = $1`, gameColumns)

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, utc))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game not found: date=%s: %w", utc, reconcile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	if err := r.attachPromotions(ctx, []*models.Game{game}); err != nil {
		return nil, err
	}
	return game, nil
}

// ListAll retrieves the whole stored schedule ordered by start timestamp,
// with teams and promotions hydrated, for the display layer.
func (r *GameRepository) ListAll(ctx context.Context) ([]*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games ORDER BY game_date`, gameColumns)

	games, err := r.list(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	if err := r.hydrate(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// ListLocalRange retrieves games whose Pacific local start falls in
// [startLocal, endLocal), hydrated, for the month and day display routes.
func (r *GameRepository) ListLocalRange(ctx context.Context, startLocal, endLocal time.Time) ([]*models.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE game_date - INTERVAL '7 hours' >= $1
		  AND game_date - INTERVAL '7 hours' < $2
		ORDER BY game_date
	`, gameColumns)

	games, err := r.list(ctx, query, startLocal, endLocal)
	if err != nil {
		return nil, fmt.Errorf("failed to list games in range: %w", err)
	}
	if err := r.hydrate(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func (r *GameRepository) list(ctx context.Context, query string, args ...any) ([]*models.Game, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}
	return games, nil
}

func (r *GameRepository) attachPromotions(ctx context.Context, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}

	ids := make([]int, len(games))
	byID := make(map[int]*models.Game, len(games))
	for i, game := range games {
		ids[i] = game.ID
		byID[game.ID] = game
		game.Promotions = nil
	}

	promos, err := r.db.Promotions.ListForGames(ctx, ids)
	if err != nil {
		return err
	}
	for _, promo := range promos {
		game := byID[promo.GameID]
		game.Promotions = append(game.Promotions, promo)
	}
	return nil
}

// hydrate attaches promotions and both team rows to each game.
func (r *GameRepository) hydrate(ctx context.Context, games []*models.Game) error {
	if err := r.attachPromotions(ctx, games); err != nil {
		return err
	}

	teams := make(map[int]*models.Team)
	for _, game := range games {
		for _, teamID := range []int{game.HomeTeamID, game.AwayTeamID} {
			if _, loaded := teams[teamID]; loaded {
				continue
			}
			team, err := r.db.Teams.GetByID(ctx, teamID)
			if err != nil {
				return err
			}
			teams[teamID] = team
		}
		game.HomeTeam = teams[game.HomeTeamID]
		game.AwayTeam = teams[game.AwayTeamID]
	}
	return nil
}
