package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlbschedule/ingestion/internal/models"
	"mlbschedule/ingestion/internal/reconcile"
)

func testTeam(club, city, abbr string) *models.Team {
	return &models.Team{
		Name:         club,
		City:         city,
		LogoURL:      "https://www.mlbstatic.com/team-logos/" + abbr + ".svg",
		Abbreviation: abbr,
	}
}

func TestTeamRepository_Create(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := testTeam("Dodgers", "Los Angeles", "LAD")

	err := db.Teams.Create(ctx, team)
	require.NoError(t, err, "Should successfully insert team")
	assert.NotZero(t, team.ID, "Insert should set the generated id")

	retrieved, err := db.Teams.GetByID(ctx, team.ID)
	require.NoError(t, err, "Should retrieve inserted team")
	assert.Equal(t, "Dodgers", retrieved.Name)
	assert.Equal(t, "Los Angeles", retrieved.City)
	assert.Equal(t, "LAD", retrieved.Abbreviation)
	assert.Zero(t, retrieved.Wins, "A new team starts with an empty record")
}

func TestTeamRepository_GetByName(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := testTeam("Giants", "San Francisco", "SF")
	require.NoError(t, db.Teams.Create(ctx, team))

	retrieved, err := db.Teams.GetByName(ctx, "Giants")
	require.NoError(t, err, "Should retrieve team by club name")
	assert.Equal(t, team.ID, retrieved.ID)

	_, err = db.Teams.GetByName(ctx, "Mets")
	assert.ErrorIs(t, err, reconcile.ErrNotFound, "Unknown club name should map to ErrNotFound")
}

func TestTeamRepository_GetByFullName(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := testTeam("Dodgers", "Los Angeles", "LAD")
	require.NoError(t, db.Teams.Create(ctx, team))

	retrieved, err := db.Teams.GetByFullName(ctx, "Los Angeles Dodgers")
	require.NoError(t, err, "Should retrieve team by city plus club name")
	assert.Equal(t, team.ID, retrieved.ID)

	_, err = db.Teams.GetByFullName(ctx, "Los Angeles Angels")
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
}

func TestTeamRepository_UpdateRecord(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := testTeam("Dodgers", "Los Angeles", "LAD")
	require.NoError(t, db.Teams.Create(ctx, team))

	err := db.Teams.UpdateRecord(ctx, team.ID, 60, 30)
	require.NoError(t, err, "Should update the win-loss record")

	updated, err := db.Teams.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Wins)
	assert.Equal(t, 30, updated.Losses)
}
