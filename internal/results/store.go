package results

import (
	"context"
	"database/sql"
	"time"
)

// Result is one completed play-through.
type Result struct {
	SessionID string    `json:"sessionId"`
	Play      int       `json:"play"`
	Pieces    int       `json:"pieces"`
	Moves     int       `json:"moves"`
	ElapsedMs int64     `json:"elapsedMs"`
	WonAt     time.Time `json:"wonAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a result. A (session, play) pair is recorded at most once;
// repeats are ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(session_id, play, pieces, moves, elapsed_ms, won_at)
VALUES(?,?,?,?,?,?)`,
		r.SessionID, r.Play, r.Pieces, r.Moves, r.ElapsedMs, r.WonAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Count returns how many results exist for a puzzle size.
func (s *Store) Count(ctx context.Context, pieces int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM results WHERE pieces=?`, pieces).Scan(&n)
	return n, err
}

// Leaderboard returns the best results for a puzzle size: fewest moves,
// then fastest, then earliest. limit defaults to 20.
func (s *Store) Leaderboard(ctx context.Context, pieces, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, play, pieces, moves, elapsed_ms, won_at
FROM results
WHERE pieces=?
ORDER BY moves ASC, elapsed_ms ASC, won_at ASC
LIMIT ?`, pieces, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		var wonAt string
		if err := rows.Scan(&r.SessionID, &r.Play, &r.Pieces, &r.Moves, &r.ElapsedMs, &wonAt); err != nil {
			return nil, err
		}
		r.WonAt, _ = time.Parse(time.RFC3339Nano, wonAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
