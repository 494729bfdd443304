package reconcile

import (
	"context"
	"errors"
	"time"

	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/models"
)

// ErrNotFound is returned by Store lookups that match no row.
var ErrNotFound = errors.New("not found")

// Store is the persistence port the driver mutates the schedule through.
// Implementations must hydrate Promotions on every game they return, since
// promo sets are the matcher's identity signal for home games.
type Store interface {
	// ListGamesFrom returns stored games whose Pacific local start is at or
	// after localFrom, ordered by start timestamp ascending.
	ListGamesFrom(ctx context.Context, localFrom time.Time) ([]*models.Game, error)
	// GameByDate returns the stored game with exactly the given UTC start.
	GameByDate(ctx context.Context, utc time.Time) (*models.Game, error)
	// SaveGame inserts a new game row and sets its ID.
	SaveGame(ctx context.Context, g *models.Game) error
	DeleteGame(ctx context.Context, g *models.Game) error

	// SavePromotions links and inserts a game's promotion rows.
	SavePromotions(ctx context.Context, gameID int, promos []*models.Promotion) error
	// DeletePromotions removes every promotion row linked to the game.
	DeletePromotions(ctx context.Context, gameID int) error

	// TeamByName looks a team up by club name, e.g. "Dodgers".
	TeamByName(ctx context.Context, clubName string) (*models.Team, error)
	// TeamByFullName looks a team up by "City Name", e.g. "Los Angeles Dodgers".
	TeamByFullName(ctx context.Context, fullName string) (*models.Team, error)
	// SaveTeam inserts a new team row and sets its ID.
	SaveTeam(ctx context.Context, t *models.Team) error
	UpdateTeamRecord(ctx context.Context, teamID, wins, losses int) error
}

// Feed is what the driver needs from the MLB Stats client.
type Feed interface {
	FetchSchedule(ctx context.Context, q client.ScheduleQuery) (*client.ScheduleResponse, error)
	FetchStandings(ctx context.Context) (*client.StandingsResponse, error)
}
