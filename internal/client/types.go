package client

// Feed payload shapes. Optional keys are pointers or zero-able strings so a
// missing field is distinguishable from a present-but-zero one.

// ScheduleResponse is the schedule endpoint's top-level payload. TotalGames
// is a pointer so shape validation can tell "key absent" from "0 games".
type ScheduleResponse struct {
	TotalGames *int       `json:"totalGames"`
	Dates      []GameDate `json:"dates"`
}

// GameDate is one calendar day of games. Double-headers show up as two
// entries in Games for the same date.
type GameDate struct {
	Date  string         `json:"date"` // YYYY-MM-DD
	Games []ScheduleGame `json:"games"`
}

// ScheduleGame is one scheduled contest as the feed reports it.
type ScheduleGame struct {
	GamePk           int64            `json:"gamePk"`
	GameDate         string           `json:"gameDate"` // ISO-8601 UTC
	SeriesGameNumber int              `json:"seriesGameNumber"`
	GamesInSeries    int              `json:"gamesInSeries"`
	ResumedFrom      string           `json:"resumedFrom,omitempty"` // set when resumed after a suspension
	Teams            GameTeams        `json:"teams"`
	Promotions       []PromotionEntry `json:"promotions,omitempty"`
}

type GameTeams struct {
	Home GameSide `json:"home"`
	Away GameSide `json:"away"`
}

type GameSide struct {
	Team         TeamInfo     `json:"team"`
	LeagueRecord LeagueRecord `json:"leagueRecord"`
}

type TeamInfo struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`          // full name, e.g. "Los Angeles Dodgers"
	ClubName      string `json:"clubName"`      // "Dodgers"
	FranchiseName string `json:"franchiseName"` // "Los Angeles"
	Abbreviation  string `json:"abbreviation"`  // "LAD"
}

type LeagueRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type PromotionEntry struct {
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	OfferType string `json:"offerType"`
}

// StandingsResponse is the league standings payload, one record per division.
type StandingsResponse struct {
	Records []DivisionRecord `json:"records"`
}

type DivisionRecord struct {
	Division    Division     `json:"division"`
	TeamRecords []TeamRecord `json:"teamRecords"`
}

type Division struct {
	ID *int `json:"id"`
}

// TeamRecord carries one team's win-loss line. Wins and Losses are pointers
// because the standings upsert must skip records missing either field.
type TeamRecord struct {
	Team   TeamName `json:"team"`
	Wins   *int     `json:"wins"`
	Losses *int     `json:"losses"`
}

type TeamName struct {
	Name string `json:"name"`
}
