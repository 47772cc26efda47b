// internal/httpserver/routes_results.go
//
// HTTP routes for the results history.
// Exposes under /results:
//   - GET /results/leaderboard?pieces=9&limit=20 → best completed play-throughs
//
// Results are written by the drag-stop handler when a play-through is won.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/edgepuzzle/internal/results"
)

type leaderboardRes struct {
	Pieces int              `json:"pieces"`
	Rows   []results.Result `json:"rows"`
}

// mountResults registers all /results routes.
func (s *Server) mountResults(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	pieces := s.catalog.Len()
	if v := r.URL.Query().Get("pieces"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_pieces"}`, http.StatusBadRequest)
			return
		}
		pieces = n
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	res := leaderboardRes{Pieces: pieces, Rows: []results.Result{}}
	if s.results != nil {
		rows, err := s.results.Leaderboard(r.Context(), pieces, limit)
		if err != nil {
			log.Error().Err(err).Msg("leaderboard")
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
		res.Rows = rows
	}
	_ = json.NewEncoder(w).Encode(res)
}
