package puzzle

import "github.com/robalobadob/edgepuzzle/internal/catalog"

// Classify determines which sides of a and b face each other.
//
// Equal OffsetLeft means the pieces are stacked: the one with the larger
// OffsetTop is below and faces up with its top edge. Equal OffsetTop means
// they are side by side: the one with the larger OffsetLeft is to the right
// and faces left. Anything else (diagonal or unrelated candidates reported by
// the collision layer) is NotAdjacent, as is an exact overlap.
//
// Offsets are compared exactly; callers report positions already aligned
// to the snap grid.
func Classify(a, b Placed) Adjacency {
	switch {
	case a.OffsetLeft == b.OffsetLeft && a.OffsetTop == b.OffsetTop:
		return Adjacency{Orientation: NotAdjacent}
	case a.OffsetLeft == b.OffsetLeft:
		if a.OffsetTop > b.OffsetTop {
			return Adjacency{Orientation: Vertical, Pair: pair(a, catalog.Top, b, catalog.Bottom)}
		}
		return Adjacency{Orientation: Vertical, Pair: pair(a, catalog.Bottom, b, catalog.Top)}
	case a.OffsetTop == b.OffsetTop:
		if a.OffsetLeft > b.OffsetLeft {
			return Adjacency{Orientation: Horizontal, Pair: pair(a, catalog.Left, b, catalog.Right)}
		}
		return Adjacency{Orientation: Horizontal, Pair: pair(a, catalog.Right, b, catalog.Left)}
	}
	return Adjacency{Orientation: NotAdjacent}
}

func pair(a Placed, aSide catalog.Side, b Placed, bSide catalog.Side) SnapPair {
	return SnapPair{
		AID:    a.Piece.ID,
		ASide:  aSide,
		AValue: a.Piece.Value(aSide),
		BID:    b.Piece.ID,
		BSide:  bSide,
		BValue: b.Piece.Value(bSide),
	}
}
