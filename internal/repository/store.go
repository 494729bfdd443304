package repository

import (
	"context"
	"time"

	"mlbschedule/ingestion/internal/models"
	"mlbschedule/ingestion/internal/reconcile"
)

// Store adapts the repositories to the reconciliation driver's persistence
// port.
type Store struct {
	db *Database
}

var _ reconcile.Store = (*Store)(nil)

func NewStore(db *Database) *Store {
	return &Store{db: db}
}

func (s *Store) ListGamesFrom(ctx context.Context, localFrom time.Time) ([]*models.Game, error) {
	return s.db.Games.ListFrom(ctx, localFrom)
}

func (s *Store) GameByDate(ctx context.Context, utc time.Time) (*models.Game, error) {
	return s.db.Games.GetByDate(ctx, utc)
}

func (s *Store) SaveGame(ctx context.Context, g *models.Game) error {
	return s.db.Games.Create(ctx, g)
}

func (s *Store) DeleteGame(ctx context.Context, g *models.Game) error {
	return s.db.Games.Delete(ctx, g)
}

func (s *Store) SavePromotions(ctx context.Context, gameID int, promos []*models.Promotion) error {
	return s.db.Promotions.SaveAll(ctx, gameID, promos)
}

func (s *Store) DeletePromotions(ctx context.Context, gameID int) error {
	return s.db.Promotions.DeleteForGame(ctx, gameID)
}

func (s *Store) TeamByName(ctx context.Context, clubName string) (*models.Team, error) {
	return s.db.Teams.GetByName(ctx, clubName)
}

func (s *Store) TeamByFullName(ctx context.Context, fullName string) (*models.Team, error) {
	return s.db.Teams.GetByFullName(ctx, fullName)
}

func (s *Store) SaveTeam(ctx context.Context, t *models.Team) error {
	return s.db.Teams.Create(ctx, t)
}

func (s *Store) UpdateTeamRecord(ctx context.Context, teamID, wins, losses int) error {
	return s.db.Teams.UpdateRecord(ctx, teamID, wins, losses)
}
