// internal/puzzle/types.go
//
// Core type definitions for the puzzle engine.
// Defines:
//   - Position: the narrow input contract (piece id + top-left offsets).
//   - Placed: a catalog piece at a position, what the classifier works on.
//   - SnapPair / Adjacency: the result of classifying two placed pieces.
//   - Status: coarse session state (playing/won).

package puzzle

import "github.com/robalobadob/edgepuzzle/internal/catalog"

// Position is a piece's top-left corner in the shared board coordinate space,
// as reported by the input/collision layer.
type Position struct {
	ID         string  `json:"id"`
	OffsetLeft float64 `json:"offsetLeft"`
	OffsetTop  float64 `json:"offsetTop"`
}

// Placed pairs a catalog piece with its current position.
type Placed struct {
	Piece      catalog.Piece
	OffsetLeft float64
	OffsetTop  float64
}

// SnapPair describes the two facing edges of a snapped pair.
// A is always the piece the classifier was asked about first (the moved piece).
type SnapPair struct {
	AID    string       `json:"pieceAId"`
	ASide  catalog.Side `json:"pieceASide"`
	AValue int          `json:"pieceAValue"`
	BID    string       `json:"pieceBId"`
	BSide  catalog.Side `json:"pieceBSide"`
	BValue int          `json:"pieceBValue"`
}

// Fits reports whether the facing edge values are equal.
func (p SnapPair) Fits() bool { return p.AValue == p.BValue }

// Orientation tags an Adjacency.
type Orientation int

const (
	NotAdjacent Orientation = iota
	Vertical
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "not-adjacent"
}

// Adjacency is the classifier's result: either NotAdjacent, or an
// orientation plus the facing sides.
type Adjacency struct {
	Orientation Orientation
	Pair        SnapPair
}

// Adjacent reports whether the two pieces share an edge.
func (a Adjacency) Adjacent() bool { return a.Orientation != NotAdjacent }

// Status represents the coarse state of a session.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
)
