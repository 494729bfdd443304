package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlbschedule/ingestion/internal/models"
	"mlbschedule/ingestion/internal/reconcile"
)

func seedTeams(t *testing.T, ctx context.Context, db *Database) (home, away *models.Team) {
	t.Helper()

	home = testTeam("Dodgers", "Los Angeles", "LAD")
	away = testTeam("Giants", "San Francisco", "SF")
	require.NoError(t, db.Teams.Create(ctx, home))
	require.NoError(t, db.Teams.Create(ctx, away))
	return home, away
}

func testGame(key int64, date time.Time, num, count int, home, away *models.Team) *models.Game {
	return &models.Game{
		GameKey:          key,
		Date:             date,
		SeriesGameNumber: num,
		SeriesGameCount:  count,
		HomeTeamID:       home.ID,
		AwayTeamID:       away.ID,
	}
}

func TestGameRepository_CreateAndDelete(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	game := testGame(745123, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 3, home, away)
	require.NoError(t, db.Games.Create(ctx, game), "Should insert game")
	assert.NotZero(t, game.ID)
	assert.False(t, game.CreatedAt.IsZero(), "Insert should return created_at")

	count, err := db.Games.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, db.Games.Delete(ctx, game), "Should delete game")

	count, err = db.Games.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = db.Games.Delete(ctx, game)
	assert.ErrorIs(t, err, reconcile.ErrNotFound, "Deleting a missing row should map to ErrNotFound")
}

func TestGameRepository_ListFrom(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	early := testGame(1001, time.Date(2024, 4, 2, 2, 10, 0, 0, time.UTC), 1, 2, home, away)
	late := testGame(1002, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 2, 2, home, away)
	require.NoError(t, db.Games.Create(ctx, late)) // insertion order must not matter
	require.NoError(t, db.Games.Create(ctx, early))

	require.NoError(t, db.Promotions.SaveAll(ctx, late.ID, []*models.Promotion{
		{Name: "Bobblehead", ThumbnailURL: "bobble.jpg"},
	}))

	// Window from May 1 local excludes the April game.
	games, err := db.Games.ListFrom(ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(1002), games[0].GameKey)
	require.Len(t, games[0].Promotions, 1, "ListFrom must hydrate promotions")
	assert.Equal(t, "Bobblehead", games[0].Promotions[0].Name)

	// Window from season start returns both, ordered by start timestamp.
	games, err = db.Games.ListFrom(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, int64(1001), games[0].GameKey)
	assert.Equal(t, int64(1002), games[1].GameKey)
	assert.Empty(t, games[0].Promotions)
}

func TestGameRepository_ListFromPacificBoundary(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	// 02:10 UTC on June 11 is still June 10 in Pacific time.
	game := testGame(1001, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	require.NoError(t, db.Games.Create(ctx, game))

	games, err := db.Games.ListFrom(ctx, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, games, "A game on the local day before the boundary is outside the window")

	games, err = db.Games.ListFrom(ctx, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestGameRepository_GetByDate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	date := time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC)
	game := testGame(1001, date, 1, 1, home, away)
	require.NoError(t, db.Games.Create(ctx, game))
	require.NoError(t, db.Promotions.SaveAll(ctx, game.ID, []*models.Promotion{
		{Name: "Tote Bag", ThumbnailURL: "tote.jpg"},
	}))

	retrieved, err := db.Games.GetByDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, game.ID, retrieved.ID)
	assert.True(t, retrieved.Date.Equal(date), "Timestamps should round-trip in UTC")
	require.Len(t, retrieved.Promotions, 1)

	_, err = db.Games.GetByDate(ctx, date.Add(time.Hour))
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
}

func TestGameRepository_ListAllHydrates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	game := testGame(1001, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	require.NoError(t, db.Games.Create(ctx, game))

	games, err := db.Games.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.NotNil(t, games[0].HomeTeam, "ListAll must hydrate team rows")
	assert.Equal(t, "Dodgers", games[0].HomeTeam.Name)
	assert.Equal(t, "Giants", games[0].AwayTeam.Name)
}

func TestGameRepository_ListLocalRange(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	june := testGame(1001, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	july := testGame(1002, time.Date(2024, 7, 5, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	require.NoError(t, db.Games.Create(ctx, june))
	require.NoError(t, db.Games.Create(ctx, july))

	games, err := db.Games.ListLocalRange(ctx,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, int64(1001), games[0].GameKey)
}

func TestPromotionRepository_SaveAndReplace(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	game := testGame(1001, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	require.NoError(t, db.Games.Create(ctx, game))

	promos := []*models.Promotion{
		{Name: "Bobblehead", ThumbnailURL: "bobble.jpg", OfferType: "Giveaway"},
		{Name: "Fireworks Show", ThumbnailURL: "undefined"},
	}
	require.NoError(t, db.Promotions.SaveAll(ctx, game.ID, promos))
	assert.NotZero(t, promos[0].ID, "SaveAll should set generated ids")
	assert.Equal(t, game.ID, promos[0].GameID, "SaveAll should link promos to the game")

	listed, err := db.Promotions.ListForGames(ctx, []int{game.ID})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Wholesale replacement: delete then rewrite.
	require.NoError(t, db.Promotions.DeleteForGame(ctx, game.ID))
	require.NoError(t, db.Promotions.SaveAll(ctx, game.ID, []*models.Promotion{
		{Name: "Tote Bag", ThumbnailURL: "tote.jpg"},
	}))

	listed, err = db.Promotions.ListForGames(ctx, []int{game.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Tote Bag", listed[0].Name)
}

func TestStoreSatisfiesReconcilePort(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)
	home, away := seedTeams(t, ctx, db)

	var store reconcile.Store = NewStore(db)

	game := testGame(1001, time.Date(2024, 6, 11, 2, 10, 0, 0, time.UTC), 1, 1, home, away)
	require.NoError(t, store.SaveGame(ctx, game))

	games, err := store.ListGamesFrom(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, games, 1)

	team, err := store.TeamByFullName(ctx, "Los Angeles Dodgers")
	require.NoError(t, err)
	require.NoError(t, store.UpdateTeamRecord(ctx, team.ID, 50, 40))

	updated, err := store.TeamByName(ctx, "Dodgers")
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Wins)
}
