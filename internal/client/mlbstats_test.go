package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleFixture = `{
	"totalGames": 2,
	"dates": [
		{
			"date": "2024-06-10",
			"games": [
				{
					"gamePk": 745123,
					"gameDate": "2024-06-11T02:10:00Z",
					"seriesGameNumber": 1,
					"gamesInSeries": 3,
					"teams": {
						"home": {
							"team": {
								"id": 119,
								"name": "Los Angeles Dodgers",
								"clubName": "Dodgers",
								"franchiseName": "Los Angeles",
								"abbreviation": "LAD"
							},
							"leagueRecord": {"wins": 40, "losses": 25}
						},
						"away": {
							"team": {
								"id": 137,
								"name": "San Francisco Giants",
								"clubName": "Giants",
								"franchiseName": "San Francisco",
								"abbreviation": "SF"
							},
							"leagueRecord": {"wins": 33, "losses": 32}
						}
					},
					"promotions": [
						{"name": "Bobblehead", "imageUrl": "https://example.com/bobble.jpg", "offerType": "Giveaway"}
					]
				}
			]
		}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestFetchSchedule(t *testing.T) {
	var gotQuery string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(scheduleFixture))
	})
	defer server.Close()

	schedule, err := c.FetchSchedule(context.Background(), ScheduleQuery{
		Season:    2024,
		StartDate: "2024-03-01",
		EndDate:   "2024-11-30",
		TeamID:    119,
	})
	require.NoError(t, err)

	require.NotNil(t, schedule.TotalGames)
	assert.Equal(t, 2, *schedule.TotalGames)
	require.Len(t, schedule.Dates, 1)

	game := schedule.Dates[0].Games[0]
	assert.Equal(t, int64(745123), game.GamePk)
	assert.Equal(t, "2024-06-11T02:10:00Z", game.GameDate)
	assert.Equal(t, 1, game.SeriesGameNumber)
	assert.Equal(t, 3, game.GamesInSeries)
	assert.Equal(t, "Dodgers", game.Teams.Home.Team.ClubName)
	assert.Equal(t, 40, game.Teams.Home.LeagueRecord.Wins)
	require.Len(t, game.Promotions, 1)
	assert.Equal(t, "Bobblehead", game.Promotions[0].Name)

	// The hydrate and filter parameters drive what the feed returns.
	assert.Contains(t, gotQuery, "hydrate=team%2Cgame%28promotions%29")
	assert.Contains(t, gotQuery, "teamId=119")
	assert.Contains(t, gotQuery, "season=2024")
	assert.Contains(t, gotQuery, "gameType=R")
	assert.Contains(t, gotQuery, "sportId=1")
}

func TestFetchScheduleInvalidShape(t *testing.T) {
	cases := map[string]string{
		"missing totalGames": `{"dates": []}`,
		"missing dates":      `{"totalGames": 5}`,
		"empty object":       `{}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(body))
			})
			defer server.Close()

			_, err := c.FetchSchedule(context.Background(), ScheduleQuery{Season: 2024, TeamID: 119})
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestFetchScheduleZeroGamesIsValid(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"totalGames": 0, "dates": []}`))
	})
	defer server.Close()

	schedule, err := c.FetchSchedule(context.Background(), ScheduleQuery{Season: 2024, TeamID: 119})
	require.NoError(t, err, "A present-but-zero totalGames is a real empty window, not a shape error")
	assert.Equal(t, 0, *schedule.TotalGames)
	assert.Empty(t, schedule.Dates)
}

func TestFetchScheduleStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusNotFound, KindClient},
		{http.StatusBadRequest, KindClient},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
		{http.StatusNoContent, KindUnexpected},
	}

	for _, tc := range cases {
		c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})

		_, err := c.FetchSchedule(context.Background(), ScheduleQuery{Season: 2024, TeamID: 119})
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr), "Non-200 should surface as a StatusError")
		assert.Equal(t, tc.status, statusErr.StatusCode)
		assert.Equal(t, tc.kind, statusErr.Kind)

		server.Close()
	}
}

func TestFetchStandings(t *testing.T) {
	var gotQuery string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"records": [
				{
					"division": {"id": 203},
					"teamRecords": [
						{"team": {"name": "Los Angeles Dodgers"}, "wins": 60, "losses": 30}
					]
				}
			]
		}`))
	})
	defer server.Close()

	standings, err := c.FetchStandings(context.Background())
	require.NoError(t, err)

	require.Len(t, standings.Records, 1)
	require.NotNil(t, standings.Records[0].Division.ID)
	assert.Equal(t, 203, *standings.Records[0].Division.ID)

	record := standings.Records[0].TeamRecords[0]
	assert.Equal(t, "Los Angeles Dodgers", record.Team.Name)
	require.NotNil(t, record.Wins)
	assert.Equal(t, 60, *record.Wins)

	// Both league ids go on one request.
	assert.Contains(t, gotQuery, "leagueId=103")
	assert.Contains(t, gotQuery, "leagueId=104")
}

func TestFetchStandingsMissingFieldsStayNil(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"records": [
				{"teamRecords": [{"team": {"name": "Los Angeles Dodgers"}, "wins": 60}]}
			]
		}`))
	})
	defer server.Close()

	standings, err := c.FetchStandings(context.Background())
	require.NoError(t, err)

	record := standings.Records[0].TeamRecords[0]
	assert.Nil(t, standings.Records[0].Division.ID)
	assert.NotNil(t, record.Wins)
	assert.Nil(t, record.Losses, "An absent losses key must stay distinguishable from zero")
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", 5*time.Second)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
