package models

import (
	"time"

	"mlbschedule/ingestion/internal/localtime"
)

// Game identifies one scheduled contest. The stored games table ordered by
// Date ascending doubles as the season index: the Nth game chronologically
// sits at slice index N-1, and the reconciliation pass depends on that
// positional invariant surviving every insert, update, and replace.
type Game struct {
	ID               int       `db:"id"`
	GameKey          int64     `db:"game_key"` // feed gamePk, the only stable external id
	Date             time.Time `db:"game_date"` // UTC
	SeriesGameNumber int       `db:"series_game_number"`
	SeriesGameCount  int       `db:"series_game_count"`
	HomeTeamID       int       `db:"home_team_id"`
	AwayTeamID       int       `db:"away_team_id"`

	// Loaded relations; nil unless the query hydrated them.
	HomeTeam   *Team
	AwayTeam   *Team
	Promotions []*Promotion

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LocalDate is the game's start in Pacific civil time, using the in-season
// daylight offset the stored-window queries filter on.
func (g *Game) LocalDate() time.Time {
	return localtime.ToPacific(g.Date, true)
}

// ReadableDate is the display form of LocalDate,
// e.g. "Fri February 09 1990 at 09:15 PM".
func (g *Game) ReadableDate() string {
	return localtime.Readable(g.Date, true)
}

// Matches is the legacy structural identity rule: two games are the same if
// their stored IDs match, or if start time, series position, series length,
// and both team references all match. The matcher classifies with this rule
// for compatibility with rows predating GameKey.
func (g *Game) Matches(other *Game) bool {
	if other == nil {
		return false
	}
	if g == other {
		return true
	}
	if g.ID != 0 && g.ID == other.ID {
		return true
	}
	return g.Date.Equal(other.Date) &&
		g.SeriesGameNumber == other.SeriesGameNumber &&
		g.SeriesGameCount == other.SeriesGameCount &&
		g.HomeTeamID == other.HomeTeamID &&
		g.AwayTeamID == other.AwayTeamID
}

// SharesGameKey is the stable-key comparator: identity by the feed's gamePk.
// Stronger than Matches for fresh data, but not yet trusted for legacy rows.
func (g *Game) SharesGameKey(other *Game) bool {
	return other != nil && g.GameKey != 0 && g.GameKey == other.GameKey
}
