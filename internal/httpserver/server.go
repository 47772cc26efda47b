// internal/httpserver/server.go
//
// HTTP server wiring for the puzzle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/catalog".
//   - Session endpoints: POST /puzzle/new, then token-gated /puzzle/{id}/*.
//   - Results endpoints: mounted under /results.
//
// Notes:
//   - The engine is single-threaded; every session mutation goes through
//     store.Update so concurrent requests for one session are serialized.
//   - Effects are returned to the client (the renderer) with their delays;
//     the server never runs timers on the client's behalf.
//   - A finished play-through is recorded in the results history, best effort.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/edgepuzzle/internal/catalog"
	"github.com/robalobadob/edgepuzzle/internal/puzzle"
	"github.com/robalobadob/edgepuzzle/internal/results"
	"github.com/robalobadob/edgepuzzle/internal/store"
)

// Config carries the settings main reads from the environment.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	Timings   puzzle.Timings
}

// Server bundles router, live session store, catalog and results history.
type Server struct {
	r       *chi.Mux
	store   store.Store
	catalog *catalog.Catalog
	results *results.Store // nil disables the history
	cfg     Config
	newID   func() string
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cat *catalog.Catalog, res *results.Store, cfg Config) *Server {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		catalog: cat,
		results: res,
		cfg:     cfg,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"edgepuzzle","endpoints":["/health","/catalog","POST /puzzle/new","/puzzle/{id}/*","/results/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/catalog", s.handleCatalog)

	// Puzzle sessions
	s.r.Post("/puzzle/new", s.handleNewPuzzle)
	s.r.Route("/puzzle/{id}", func(r chi.Router) {
		r.Use(s.requireSessionToken)
		r.Get("/", s.handleSnapshot)
		r.Delete("/", s.handleDelete)
		r.Post("/drag-start", s.handleDragStart)
		r.Post("/drag-stop", s.handleDragStop)
		r.Post("/restart", s.handleRestart)
		r.Post("/dismiss", s.handleDismiss)
	})

	// Results history
	s.mountResults(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs method, path, status, bytes and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", chimw.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------ CATALOG ------------------------------------

type catalogRes struct {
	Name          string          `json:"name,omitempty"`
	Pieces        []catalog.Piece `json:"pieces"`
	GridSide      int             `json:"gridSide"`
	WinningNumber int             `json:"winningNumber"`
	Winnable      bool            `json:"winnable"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	n, _ := s.catalog.GridSide()
	win, ok := puzzle.WinningNumber(s.catalog.Len())
	_ = json.NewEncoder(w).Encode(catalogRes{
		Name:          s.catalog.Name,
		Pieces:        s.catalog.Pieces(),
		GridSide:      n,
		WinningNumber: win,
		Winnable:      ok,
	})
}

// ------------------------------ PUZZLE -------------------------------------

// effectDTO is the wire form of puzzle.Effect.
type effectDTO struct {
	Kind       puzzle.EffectKind `json:"kind"`
	PieceID    string            `json:"pieceId,omitempty"`
	DelayMs    int64             `json:"delayMs"`
	DurationMs int64             `json:"durationMs,omitempty"`
}

func toDTO(effects []puzzle.Effect) []effectDTO {
	out := make([]effectDTO, 0, len(effects))
	for _, e := range effects {
		out = append(out, effectDTO{
			Kind:       e.Kind,
			PieceID:    e.PieceID,
			DelayMs:    e.Delay.Milliseconds(),
			DurationMs: e.Duration.Milliseconds(),
		})
	}
	return out
}

type newPuzzleRes struct {
	SessionID string          `json:"sessionId"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Snapshot  puzzle.Snapshot `json:"snapshot"`
}

// handleNewPuzzle creates a session over the configured catalog and hands
// back the bearer token that scopes every later call to it.
func (s *Server) handleNewPuzzle(w http.ResponseWriter, r *http.Request) {
	sess := puzzle.NewSession(s.newID(), s.catalog, puzzle.WithTimings(s.cfg.Timings))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signSessionToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.ID).Int("pieces", s.catalog.Len()).Msg("puzzle started")
	_ = json.NewEncoder(w).Encode(newPuzzleRes{SessionID: sess.ID, Token: tok, ExpiresAt: exp, Snapshot: sess.Snapshot()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap puzzle.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *puzzle.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

type dragStartReq struct {
	PieceID string `json:"pieceId"`
}

type effectsRes struct {
	Effects []effectDTO `json:"effects"`
}

// handleDragStart detaches a piece before it moves.
func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	var effects []puzzle.Effect
	err := s.store.Update(r.Context(), id, func(sess *puzzle.Session) error {
		var err error
		effects, err = sess.DragStart(req.PieceID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	log.Debug().Str("session", id).Str("piece", req.PieceID).Msg("piece lifted")
	_ = json.NewEncoder(w).Encode(effectsRes{Effects: toDTO(effects)})
}

type dragStopReq struct {
	Moved    puzzle.Position   `json:"moved"`
	Adjacent []puzzle.Position `json:"adjacent"`
}

type dragStopRes struct {
	Outcome  string            `json:"outcome"` // "none" | "fit" | "no_fit"
	Pairs    []puzzle.SnapPair `json:"pairs"`
	Effects  []effectDTO       `json:"effects"`
	Won      bool              `json:"won"`
	Snapshot puzzle.Snapshot   `json:"snapshot"`
}

// handleDragStop resolves a drop and, when it completes the puzzle, records
// the result.
func (s *Server) handleDragStop(w http.ResponseWriter, r *http.Request) {
	var req dragStopReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")

	var (
		out  puzzle.Outcome
		snap puzzle.Snapshot
		won  *results.Result
	)
	err := s.store.Update(r.Context(), id, func(sess *puzzle.Session) error {
		var err error
		if out, err = sess.DragStop(req.Moved, req.Adjacent); err != nil {
			return err
		}
		snap = sess.Snapshot()
		if out.Won {
			won = &results.Result{
				SessionID: sess.ID,
				Play:      sess.Play(),
				Pieces:    s.catalog.Len(),
				Moves:     sess.Moves(),
				ElapsedMs: sess.Elapsed().Milliseconds(),
				WonAt:     *snap.WonAt,
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	for _, p := range out.Resolution.Pairs {
		log.Debug().Str("session", id).
			Str("piece", p.AID).Str("side", string(p.ASide)).Int("value", p.AValue).
			Str("neighbor", p.BID).Str("neighborSide", string(p.BSide)).Int("neighborValue", p.BValue).
			Bool("fits", p.Fits()).Msg("snap")
	}

	if won != nil {
		log.Info().Str("session", id).Int("moves", won.Moves).Int64("elapsedMs", won.ElapsedMs).Msg("puzzle solved")
		if s.results != nil {
			if err := s.results.Record(r.Context(), *won); err != nil {
				log.Warn().Err(err).Str("session", id).Msg("record result")
			}
		}
	}

	res := dragStopRes{
		Outcome:  outcomeName(out.Resolution),
		Pairs:    out.Resolution.Pairs,
		Effects:  toDTO(out.Effects),
		Won:      out.Won,
		Snapshot: snap,
	}
	if res.Pairs == nil {
		res.Pairs = []puzzle.SnapPair{}
	}
	_ = json.NewEncoder(w).Encode(res)
}

func outcomeName(r puzzle.Resolution) string {
	switch {
	case !r.Resolved():
		return "none"
	case r.Failed():
		return "no_fit"
	}
	return "fit"
}

// handleRestart resets the session (the win notice's "play again").
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *puzzle.Session) { sess.Restart() })
}

// handleDismiss hides the win notice.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *puzzle.Session) { sess.DismissWinNotice() })
}

// withSession applies fn and responds with the resulting snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*puzzle.Session)) {
	var snap puzzle.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *puzzle.Session) error {
		fn(sess)
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// writeError maps engine/store errors to JSON error responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	case errors.Is(err, catalog.ErrUnknownPiece):
		http.Error(w, `{"error":"unknown_piece"}`, http.StatusBadRequest)
	case errors.Is(err, puzzle.ErrNotDragging):
		http.Error(w, `{"error":"not_dragging"}`, http.StatusConflict)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}
