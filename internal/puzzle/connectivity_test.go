package puzzle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSymmetric(t *testing.T, c *Connectivity, ids []string) {
	t.Helper()
	for _, a := range ids {
		for _, b := range ids {
			require.Equal(t, c.Linked(a, b), c.Linked(b, a), "asymmetric link %s/%s", a, b)
		}
	}
}

func TestConnectivity_AddIsSymmetricAndIdempotent(t *testing.T) {
	c := NewConnectivity([]string{"a", "b", "c"})

	c.Add("a", "b")
	assert.Equal(t, 1, c.Count("a"))
	assert.Equal(t, 1, c.Count("b"))

	c.Add("a", "b")
	c.Add("b", "a")
	assert.Equal(t, 1, c.Count("a"))
	assert.Equal(t, 1, c.Count("b"))
	assert.Equal(t, 2, c.Total())
}

func TestConnectivity_SelfLinkIgnored(t *testing.T) {
	c := NewConnectivity([]string{"a"})
	c.Add("a", "a")
	assert.Equal(t, 0, c.Count("a"))
}

func TestConnectivity_Remove(t *testing.T) {
	c := NewConnectivity([]string{"a", "b"})
	c.Add("a", "b")
	c.Remove("b", "a")
	assert.Equal(t, 0, c.Count("a"))
	assert.Equal(t, 0, c.Count("b"))

	// removing a missing link is harmless
	c.Remove("a", "b")
	assert.Equal(t, 0, c.Total())
}

func TestConnectivity_ClearAll(t *testing.T) {
	c := NewConnectivity([]string{"x", "a", "b", "c"})
	c.Add("x", "a")
	c.Add("x", "b")
	c.Add("b", "c")

	affected := c.ClearAll("x")
	assert.Equal(t, []string{"a", "b"}, affected)
	assert.Equal(t, 0, c.Count("x"))
	for _, id := range []string{"a", "b", "c"} {
		assert.NotContains(t, c.Neighbors(id), "x")
	}
	assert.Equal(t, 0, c.Count("a"))
	assert.Equal(t, 1, c.Count("b"))
	assert.Empty(t, c.ClearAll("x"))
}

func TestConnectivity_RandomSequencesStaySymmetric(t *testing.T) {
	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	c := NewConnectivity(ids)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		a, b := ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0, 1:
			c.Add(a, b)
		case 2:
			c.Remove(a, b)
		case 3:
			c.ClearAll(a)
			require.Equal(t, 0, c.Count(a))
		}
		assertSymmetric(t, c, ids)
	}
}

func TestConnectivity_Reset(t *testing.T) {
	c := NewConnectivity([]string{"a", "b"})
	c.Add("a", "b")
	c.Reset()
	assert.Equal(t, 0, c.Total())
	assert.Empty(t, c.Neighbors("a"))
}
