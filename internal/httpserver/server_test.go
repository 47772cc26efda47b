package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/edgepuzzle/internal/catalog"
	"github.com/robalobadob/edgepuzzle/internal/puzzle"
	"github.com/robalobadob/edgepuzzle/internal/results"
	"github.com/robalobadob/edgepuzzle/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	db, err := results.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, results.Migrate(db))
	return New(store.NewMemoryStore(), cat, results.NewStore(db), Config{JWTSecret: "test-secret", Timings: puzzle.DefaultTimings()})
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func startPuzzle(t *testing.T, s *Server) newPuzzleRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/puzzle/new", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[newPuzzleRes](t, rec)
	require.NotEmpty(t, res.SessionID)
	require.NotEmpty(t, res.Token)
	return res
}

func pos(id string, col, row int) puzzle.Position {
	return puzzle.Position{ID: id, OffsetLeft: float64(col * 100), OffsetTop: float64(row * 100)}
}

// near keeps the positions within one cell of (col, row), diagonals included.
func near(all []puzzle.Position, col, row int) []puzzle.Position {
	var out []puzzle.Position
	for _, p := range all {
		dc := int(p.OffsetLeft)/100 - col
		dr := int(p.OffsetTop)/100 - row
		if dc >= -1 && dc <= 1 && dr >= -1 && dr <= 1 {
			out = append(out, p)
		}
	}
	return out
}

func TestHealthAndCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[catalogRes](t, rec)
	assert.Len(t, cat.Pieces, 9)
	assert.Equal(t, 3, cat.GridSide)
	assert.Equal(t, 24, cat.WinningNumber)
	assert.True(t, cat.Winnable)
}

func TestSessionToken_Required(t *testing.T) {
	s := newTestServer(t)
	a := startPuzzle(t, s)
	b := startPuzzle(t, s)

	rec := do(t, s, http.MethodGet, "/puzzle/"+a.SessionID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/puzzle/"+a.SessionID, b.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/puzzle/"+a.SessionID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/puzzle/"+a.SessionID, a.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[puzzle.Snapshot](t, rec)
	assert.Equal(t, a.SessionID, snap.ID)
	assert.Equal(t, puzzle.StatusPlaying, snap.Status)
}

func TestDragStop_Errors(t *testing.T) {
	s := newTestServer(t)
	p := startPuzzle(t, s)
	base := "/puzzle/" + p.SessionID

	rec := do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{Moved: pos("p1", 0, 0)})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p99"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, base+"/drag-stop", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+p.Token)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// a valid token for a session that no longer exists
	rec = do(t, s, http.MethodDelete, base, p.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodGet, base, p.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDragFlow_FitAndNoFit(t *testing.T) {
	s := newTestServer(t)
	p := startPuzzle(t, s)
	base := "/puzzle/" + p.SessionID

	// p2 alone, then p1 below it: 4 != 3
	do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p2"})
	rec := do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{Moved: pos("p2", 0, 0)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", decode[dragStopRes](t, rec).Outcome)

	do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p1"})
	rec = do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{
		Moved:    pos("p1", 0, 1),
		Adjacent: []puzzle.Position{pos("p2", 0, 0)},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dragStopRes](t, rec)
	assert.Equal(t, "no_fit", res.Outcome)
	assert.Equal(t, 0, res.Snapshot.TotalConnectedSides)
	var sawReturn bool
	for _, e := range res.Effects {
		if e.Kind == puzzle.EffectReturnToOrigin {
			sawReturn = true
			assert.Equal(t, "p1", e.PieceID)
			assert.EqualValues(t, 300, e.DelayMs)
			assert.EqualValues(t, 1000, e.DurationMs)
		}
	}
	assert.True(t, sawReturn)

	// p8 right of p1 at the top row: 2 == 2
	do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p1"})
	do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{Moved: pos("p1", 5, 5)})
	do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p8"})
	rec = do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{
		Moved:    pos("p8", 6, 5),
		Adjacent: []puzzle.Position{pos("p1", 5, 5)},
	})
	res = decode[dragStopRes](t, rec)
	assert.Equal(t, "fit", res.Outcome)
	assert.Equal(t, []string{"p8"}, res.Snapshot.Neighbors["p1"])
	assert.Equal(t, []string{"p1"}, res.Snapshot.Neighbors["p8"])

	// lifting p8 clears p1's fit marker
	rec = do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: "p8"})
	effects := decode[effectsRes](t, rec).Effects
	assert.Equal(t, []effectDTO{
		{Kind: puzzle.EffectClearFit, PieceID: "p1"},
		{Kind: puzzle.EffectClearMarks, PieceID: "p8"},
	}, effects)
}

func TestSolveRecordsResultAndRestart(t *testing.T) {
	s := newTestServer(t)
	p := startPuzzle(t, s)
	base := "/puzzle/" + p.SessionID

	grid := [3][3]string{{"p1", "p8", "p5"}, {"p3", "p6", "p9"}, {"p4", "p7", "p2"}}
	var placed []puzzle.Position
	var last dragStopRes
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			id := grid[row][col]
			do(t, s, http.MethodPost, base+"/drag-start", p.Token, dragStartReq{PieceID: id})
			rec := do(t, s, http.MethodPost, base+"/drag-stop", p.Token, dragStopReq{Moved: pos(id, col, row), Adjacent: near(placed, col, row)})
			require.Equal(t, http.StatusOK, rec.Code)
			last = decode[dragStopRes](t, rec)
			placed = append(placed, pos(id, col, row))
		}
	}
	assert.True(t, last.Won)
	assert.Equal(t, puzzle.StatusWon, last.Snapshot.Status)
	assert.Equal(t, 24, last.Snapshot.TotalConnectedSides)
	require.NotEmpty(t, last.Effects)
	tail := last.Effects[len(last.Effects)-3:]
	assert.Equal(t, puzzle.EffectWinCue, tail[0].Kind)
	assert.EqualValues(t, 1500, tail[0].DelayMs)
	assert.Equal(t, puzzle.EffectPresentWinNotice, tail[1].Kind)
	assert.EqualValues(t, 6500, tail[1].DelayMs)

	rec := do(t, s, http.MethodGet, "/results/leaderboard?pieces=9", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[leaderboardRes](t, rec)
	require.Len(t, lb.Rows, 1)
	assert.Equal(t, p.SessionID, lb.Rows[0].SessionID)
	assert.Equal(t, 9, lb.Rows[0].Moves)
	assert.WithinDuration(t, time.Now(), lb.Rows[0].WonAt, time.Minute)

	rec = do(t, s, http.MethodPost, base+"/dismiss", p.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[puzzle.Snapshot](t, rec)
	assert.False(t, snap.WinNotice)
	assert.Equal(t, puzzle.StatusWon, snap.Status)

	rec = do(t, s, http.MethodPost, base+"/restart", p.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[puzzle.Snapshot](t, rec)
	assert.Equal(t, puzzle.StatusPlaying, snap.Status)
	assert.Equal(t, 2, snap.Play)
	assert.Equal(t, 0, snap.TotalConnectedSides)
}

func TestLeaderboard_BadPieces(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/results/leaderboard?pieces=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/results/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[leaderboardRes](t, rec)
	assert.Equal(t, 9, lb.Pieces)
	assert.Empty(t, lb.Rows)
}
