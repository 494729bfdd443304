package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/models"
	"mlbschedule/ingestion/internal/reconcile"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

const teamColumns = `id, team_name, city_name, team_logo, abbreviation, wins, losses`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID, &team.Name, &team.City, &team.LogoURL,
		&team.Abbreviation, &team.Wins, &team.Losses,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Create inserts a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (team_name, city_name, team_logo, abbreviation, wins, losses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		team.Name, team.City, team.LogoURL, team.Abbreviation, team.Wins, team.Losses,
	).Scan(&team.ID)

	if err != nil {
		metrics.RecordDBQuery("insert", "teams", "error")
		return fmt.Errorf("failed to create team: %w", err)
	}
	metrics.RecordDBQuery("insert", "teams", "success")

	log.Debug().
		Int("id", team.ID).
		Str("team", team.FullName()).
		Str("abbreviation", team.Abbreviation).
		Msg("Team created")

	return nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: id=%d: %w", id, reconcile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetByName retrieves a team by its club name, e.g. "Dodgers"
func (r *TeamRepository) GetByName(ctx context.Context, clubName string) (*models.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE team_name = $1`, teamColumns)

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, clubName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: name=%s: %w", clubName, reconcile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetByFullName retrieves a team by "City Name", the key the standings feed
// uses, e.g. "Los Angeles Dodgers"
func (r *TeamRepository) GetByFullName(ctx context.Context, fullName string) (*models.Team, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM teams WHERE city_name || ' ' || team_name = $1`, teamColumns,
	)

	team, err := scanTeam(r.db.Pool.QueryRow(ctx, query, fullName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team not found: full_name=%s: %w", fullName, reconcile.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// UpdateRecord overwrites a team's win-loss record
func (r *TeamRepository) UpdateRecord(ctx context.Context, teamID, wins, losses int) error {
	query := `UPDATE teams SET wins = $1, losses = $2 WHERE id = $3`

	result, err := r.db.Pool.Exec(ctx, query, wins, losses, teamID)
	if err != nil {
		metrics.RecordDBQuery("update", "teams", "error")
		return fmt.Errorf("failed to update team record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("team not found: id=%d: %w", teamID, reconcile.ErrNotFound)
	}
	metrics.RecordDBQuery("update", "teams", "success")

	log.Debug().
		Int("team_id", teamID).
		Int("wins", wins).
		Int("losses", losses).
		Msg("Team record updated")

	return nil
}
