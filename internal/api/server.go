// Package api serves the stored schedule as JSON for the front end.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"mlbschedule/ingestion/internal/models"
)

// monthSwitch maps route month names to month numbers. Only the months
// a regular season can touch are routable.
var monthSwitch = map[string]time.Month{
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
}

// ScheduleSource is the read side the display routes need.
type ScheduleSource interface {
	ListAll(ctx context.Context) ([]*models.Game, error)
	ListLocalRange(ctx context.Context, startLocal, endLocal time.Time) ([]*models.Game, error)
}

// ScheduleCache is an optional read-through cache for the full
// schedule payload. May be nil.
type ScheduleCache interface {
	GetSchedule(ctx context.Context) (string, bool)
	SetSchedule(ctx context.Context, payload string)
}

// Server represents the schedule display API server.
type Server struct {
	source ScheduleSource
	cache  ScheduleCache
	server *http.Server
	now    func() time.Time
}

// NewServer creates the display API server. cache may be nil to serve
// straight from the database.
func NewServer(port int, source ScheduleSource, cache ScheduleCache) *Server {
	s := &Server{
		source: source,
		cache:  cache,
		now:    time.Now,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.healthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/fullSchedule", s.fullSchedule).Methods("GET")
	api.HandleFunc("/{month}", s.monthSchedule).Methods("GET")
	api.HandleFunc("/{month}/{day:[0-9]+}", s.daySchedule).Methods("GET")

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

// Start starts the API server.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Starting schedule API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// fullSchedule returns every stored game. The payload only changes when
// a reconciliation pass runs, so it is cached whole.
func (s *Server) fullSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.cache != nil {
		if payload, ok := s.cache.GetSchedule(ctx); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(payload))
			return
		}
	}

	games, err := s.source.ListAll(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load schedule")
		return
	}

	body, err := json.Marshal(gamesToJSON(games))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode schedule")
		return
	}

	if s.cache != nil {
		s.cache.SetSchedule(ctx, string(body))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// monthSchedule returns the games of one named month in the current year.
func (s *Server) monthSchedule(w http.ResponseWriter, r *http.Request) {
	month, ok := monthSwitch[mux.Vars(r)["month"]]
	if !ok {
		respondError(w, http.StatusNotFound, "Invalid month")
		return
	}

	year := s.now().Year()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	s.respondRange(w, r, start, end)
}

// daySchedule returns the games of one calendar day, usually one game
// but two for a split double-header.
func (s *Server) daySchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, ok := monthSwitch[vars["month"]]
	if !ok {
		respondError(w, http.StatusNotFound, "Invalid month")
		return
	}

	day, err := strconv.Atoi(vars["day"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Invalid day of the month")
		return
	}

	year := s.now().Year()
	if day <= 0 || day > daysInMonth(year, month) {
		respondError(w, http.StatusNotFound, "Invalid day of the month")
		return
	}

	start := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	s.respondRange(w, r, start, end)
}

func (s *Server) respondRange(w http.ResponseWriter, r *http.Request, startLocal, endLocal time.Time) {
	games, err := s.source.ListLocalRange(r.Context(), startLocal, endLocal)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load schedule")
		return
	}
	respondJSON(w, http.StatusOK, gamesToJSON(games))
}

// daysInMonth is the last day of month in year, leap-aware.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// gameJSON is the wire shape the front end consumes.
type gameJSON struct {
	ID               int         `json:"id"`
	Date             string      `json:"date"`
	Promos           []promoJSON `json:"promos"`
	SeriesGameNumber int         `json:"seriesGameNumber"`
	SeriesGameCount  int         `json:"seriesGameCount"`
	HomeTeam         *teamJSON   `json:"homeTeam"`
	AwayTeam         *teamJSON   `json:"awayTeam"`
}

type teamJSON struct {
	ID           int    `json:"id"`
	TeamLogo     string `json:"teamLogo"`
	TeamName     string `json:"teamName"`
	CityName     string `json:"cityName"`
	Abbreviation string `json:"abbreviation"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type promoJSON struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func gamesToJSON(games []*models.Game) []gameJSON {
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, gameToJSON(g))
	}
	return out
}

func gameToJSON(g *models.Game) gameJSON {
	gj := gameJSON{
		ID:               g.ID,
		Date:             g.ReadableDate(),
		Promos:           make([]promoJSON, 0, len(g.Promotions)),
		SeriesGameNumber: g.SeriesGameNumber,
		SeriesGameCount:  g.SeriesGameCount,
		HomeTeam:         teamToJSON(g.HomeTeam),
		AwayTeam:         teamToJSON(g.AwayTeam),
	}
	for _, p := range g.Promotions {
		gj.Promos = append(gj.Promos, promoJSON{
			ID:           p.ID,
			Name:         p.Name,
			ThumbnailURL: p.ThumbnailURL,
		})
	}
	return gj
}

func teamToJSON(t *models.Team) *teamJSON {
	if t == nil {
		return nil
	}
	return &teamJSON{
		ID:           t.ID,
		TeamLogo:     t.LogoURL,
		TeamName:     t.Name,
		CityName:     t.City,
		Abbreviation: t.Abbreviation,
		Wins:         t.Wins,
		Losses:       t.Losses,
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}
