package puzzle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/edgepuzzle/internal/catalog"
)

const cell = 100

func referenceCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func at(id string, col, row int) Position {
	return Position{ID: id, OffsetLeft: float64(col * cell), OffsetTop: float64(row * cell)}
}

func placed(t *testing.T, c *catalog.Catalog, pos Position) Placed {
	t.Helper()
	p, err := c.Get(pos.ID)
	require.NoError(t, err)
	return Placed{Piece: p, OffsetLeft: pos.OffsetLeft, OffsetTop: pos.OffsetTop}
}

// solution is the assembled reference 3x3, row-major.
var solution = [3][3]string{
	{"p1", "p8", "p5"},
	{"p3", "p6", "p9"},
	{"p4", "p7", "p2"},
}

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Kind)
	}
	return out
}

func findEffect(effects []Effect, kind EffectKind, id string) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == kind && e.PieceID == id {
			return e, true
		}
	}
	return Effect{}, false
}
