// Package board is a minimal stand-in for the input/collision layer: pieces
// sit on integer grid cells and every occupant of the eight surrounding
// cells is reported as adjacent, diagonals included, the way drag libraries
// report snap candidates. Pieces off the board are in the tray at the origin.
package board

import (
	"sort"

	"github.com/robalobadob/edgepuzzle/internal/puzzle"
)

type cell struct{ col, row int }

// Board tracks where pieces have been dropped.
type Board struct {
	size   float64
	pieces map[string]cell
}

// New creates an empty board whose cells are size units wide.
func New(size float64) *Board {
	if size <= 0 {
		size = 100
	}
	return &Board{size: size, pieces: map[string]cell{}}
}

// Place puts id on (col, row), replacing any previous spot, and returns its
// position. A cell holds at most one piece; an occupant is sent to the tray.
func (b *Board) Place(id string, col, row int) puzzle.Position {
	for other, c := range b.pieces {
		if other != id && c.col == col && c.row == row {
			delete(b.pieces, other)
		}
	}
	b.pieces[id] = cell{col, row}
	return b.position(id)
}

// Lift removes id from the board.
func (b *Board) Lift(id string) { delete(b.pieces, id) }

// ReturnToOrigin sends id back to the tray.
func (b *Board) ReturnToOrigin(id string) { b.Lift(id) }

// Position returns where id sits; ok is false for tray pieces.
func (b *Board) Position(id string) (puzzle.Position, bool) {
	if _, ok := b.pieces[id]; !ok {
		return puzzle.Position{ID: id}, false
	}
	return b.position(id), true
}

func (b *Board) position(id string) puzzle.Position {
	c := b.pieces[id]
	return puzzle.Position{ID: id, OffsetLeft: float64(c.col) * b.size, OffsetTop: float64(c.row) * b.size}
}

// Adjacent lists the pieces in the eight cells around id, sorted by id.
func (b *Board) Adjacent(id string) []puzzle.Position {
	me, ok := b.pieces[id]
	if !ok {
		return nil
	}
	var out []puzzle.Position
	for other, c := range b.pieces {
		if other == id {
			continue
		}
		dc, dr := c.col-me.col, c.row-me.row
		if dc >= -1 && dc <= 1 && dr >= -1 && dr <= 1 {
			out = append(out, b.position(other))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Occupant returns the piece sitting on (col, row), if any.
func (b *Board) Occupant(col, row int) (string, bool) {
	for id, c := range b.pieces {
		if c.col == col && c.row == row {
			return id, true
		}
	}
	return "", false
}

// Len is the number of pieces on the board.
func (b *Board) Len() int { return len(b.pieces) }
