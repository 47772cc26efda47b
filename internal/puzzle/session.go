// internal/puzzle/session.go
//
// Puzzle session: the state of one play-through.
// Responsibilities:
//   - Own the connectivity model for every catalog piece.
//   - Drag start: detach the lifted piece from all its neighbors.
//   - Drag stop: resolve the drop, commit on success, check for the win.
//   - Win notice actions: restart (reset everything) and dismiss (hide).
//
// Notes:
//   - A session is not safe for concurrent use; callers serialize access
//     (see store.Store.Update).
//   - The winning number is computed once, when the session is created.

package puzzle

import (
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/edgepuzzle/internal/catalog"
)

// ErrNotDragging is returned by DragStop for a piece that was never lifted.
var ErrNotDragging = errors.New("piece is not being dragged")

// Session holds the state of a single play-through.
type Session struct {
	ID string

	catalog *catalog.Catalog
	timings Timings
	clock   func() time.Time

	conn          *Connectivity
	winningNumber int
	winnable      bool

	inHand    string
	won       bool
	notice    bool
	moves     int
	play      int
	startedAt time.Time
	wonAt     time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithTimings overrides the settle delays used for effects.
func WithTimings(t Timings) Option { return func(s *Session) { s.timings = t } }

// WithClock overrides the time source for StartedAt/WonAt.
func WithClock(clock func() time.Time) Option { return func(s *Session) { s.clock = clock } }

// NewSession starts a play-through over every piece of cat.
func NewSession(id string, cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		ID:      id,
		catalog: cat,
		timings: DefaultTimings(),
		clock:   time.Now,
		conn:    NewConnectivity(cat.IDs()),
		play:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.winningNumber, s.winnable = WinningNumber(cat.Len())
	s.startedAt = s.clock()
	return s
}

// Outcome is the result of a drag stop.
type Outcome struct {
	Resolution Resolution
	Effects    []Effect
	Won        bool // this drop completed the puzzle
}

// DragStart lifts piece id off the board. Every former neighbor loses id
// from its snap set; a neighbor left with no connections has its fit marker
// cleared. The lifted piece always has both markers cleared.
func (s *Session) DragStart(id string) ([]Effect, error) {
	if !s.catalog.Has(id) {
		return nil, fmt.Errorf("drag start: %w: %q", catalog.ErrUnknownPiece, id)
	}
	var effects []Effect
	for _, other := range s.conn.ClearAll(id) {
		if s.conn.Count(other) == 0 {
			effects = append(effects, now(EffectClearFit, other))
		}
	}
	effects = append(effects, now(EffectClearMarks, id))
	s.inHand = id
	return effects, nil
}

// DragStop drops the piece in hand at moved, next to the pieces the
// collision layer reports as adjacent.
func (s *Session) DragStop(moved Position, adjacent []Position) (Outcome, error) {
	if s.inHand == "" || moved.ID != s.inHand {
		return Outcome{}, fmt.Errorf("drag stop %q: %w", moved.ID, ErrNotDragging)
	}
	m, err := s.place(moved)
	if err != nil {
		return Outcome{}, err
	}
	others := make([]Placed, 0, len(adjacent))
	for _, pos := range adjacent {
		p, err := s.place(pos)
		if err != nil {
			return Outcome{}, err
		}
		others = append(others, p)
	}

	s.inHand = ""
	s.moves++

	res, effects := Resolve(s.conn, m, others, s.timings)
	out := Outcome{Resolution: res, Effects: effects}
	if res.Committed() && s.checkWin() {
		out.Won = true
		out.Effects = append(out.Effects, winEffects(s.timings)...)
	}
	return out, nil
}

func (s *Session) place(pos Position) (Placed, error) {
	p, err := s.catalog.Get(pos.ID)
	if err != nil {
		return Placed{}, err
	}
	return Placed{Piece: p, OffsetLeft: pos.OffsetLeft, OffsetTop: pos.OffsetTop}, nil
}

// checkWin fires at most once per play-through.
func (s *Session) checkWin() bool {
	if s.won || !s.winnable {
		return false
	}
	if s.conn.Total() != s.winningNumber {
		return false
	}
	s.won = true
	s.notice = true
	s.wonAt = s.clock()
	return true
}

// Restart resets the whole play-through.
func (s *Session) Restart() {
	s.conn.Reset()
	s.inHand = ""
	s.won = false
	s.notice = false
	s.moves = 0
	s.play++
	s.startedAt = s.clock()
	s.wonAt = time.Time{}
}

// DismissWinNotice hides the win notice; the puzzle stays won.
func (s *Session) DismissWinNotice() { s.notice = false }

// TotalConnectedSides is the sum of every piece's neighbor count.
func (s *Session) TotalConnectedSides() int { return s.conn.Total() }

// WinningNumber returns the memoized target; ok is false when unwinnable.
func (s *Session) WinningNumber() (int, bool) { return s.winningNumber, s.winnable }

// Neighbors returns the pieces currently snapped to id.
func (s *Session) Neighbors(id string) []string { return s.conn.Neighbors(id) }

// Won reports whether this play-through has been completed.
func (s *Session) Won() bool { return s.won }

// Play is the 1-based play-through number, incremented by Restart.
func (s *Session) Play() int { return s.play }

// Moves counts drag stops in the current play-through.
func (s *Session) Moves() int { return s.moves }

// Elapsed is the time from the start of the play-through to the win, or
// to now while still playing.
func (s *Session) Elapsed() time.Duration {
	if s.won {
		return s.wonAt.Sub(s.startedAt)
	}
	return s.clock().Sub(s.startedAt)
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID                  string              `json:"id"`
	Status              Status              `json:"status"`
	Play                int                 `json:"play"`
	Moves               int                 `json:"moves"`
	InHand              string              `json:"inHand,omitempty"`
	TotalConnectedSides int                 `json:"totalConnectedSides"`
	WinningNumber       int                 `json:"winningNumber"`
	Winnable            bool                `json:"winnable"`
	WinNotice           bool                `json:"winNotice"`
	Neighbors           map[string][]string `json:"neighbors"`
	StartedAt           time.Time           `json:"startedAt"`
	WonAt               *time.Time          `json:"wonAt,omitempty"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                  s.ID,
		Status:              StatusPlaying,
		Play:                s.play,
		Moves:               s.moves,
		InHand:              s.inHand,
		TotalConnectedSides: s.conn.Total(),
		WinningNumber:       s.winningNumber,
		Winnable:            s.winnable,
		WinNotice:           s.notice,
		Neighbors:           make(map[string][]string, s.catalog.Len()),
		StartedAt:           s.startedAt,
	}
	for _, id := range s.catalog.IDs() {
		snap.Neighbors[id] = s.conn.Neighbors(id)
	}
	if s.won {
		snap.Status = StatusWon
		wonAt := s.wonAt
		snap.WonAt = &wonAt
	}
	return snap
}
