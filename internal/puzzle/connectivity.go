package puzzle

import "sort"

// Connectivity records which pieces are snapped to which. The relation is
// kept symmetric: b is in a's set exactly when a is in b's set.
type Connectivity struct {
	snapped map[string]map[string]struct{}
}

// NewConnectivity creates an empty model with one (empty) entry per id.
func NewConnectivity(ids []string) *Connectivity {
	c := &Connectivity{snapped: make(map[string]map[string]struct{}, len(ids))}
	for _, id := range ids {
		c.snapped[id] = map[string]struct{}{}
	}
	return c
}

func (c *Connectivity) set(id string) map[string]struct{} {
	s, ok := c.snapped[id]
	if !ok {
		s = map[string]struct{}{}
		c.snapped[id] = s
	}
	return s
}

// Add snaps self and other together. Adding an existing link is a no-op,
// and a piece is never linked to itself.
func (c *Connectivity) Add(self, other string) {
	if self == other {
		return
	}
	c.set(self)[other] = struct{}{}
	c.set(other)[self] = struct{}{}
}

// Remove unlinks self and other on both sides.
func (c *Connectivity) Remove(self, other string) {
	delete(c.snapped[self], other)
	delete(c.snapped[other], self)
}

// ClearAll detaches self from every neighbor and returns the former
// neighbors, sorted.
func (c *Connectivity) ClearAll(self string) []string {
	affected := c.Neighbors(self)
	for _, other := range affected {
		delete(c.snapped[other], self)
	}
	if s, ok := c.snapped[self]; ok && len(s) > 0 {
		c.snapped[self] = map[string]struct{}{}
	}
	return affected
}

// Count is the size of self's snap set (snappedToMeCounter).
func (c *Connectivity) Count(self string) int { return len(c.snapped[self]) }

// Neighbors returns the ids snapped to self, sorted.
func (c *Connectivity) Neighbors(self string) []string {
	s := c.snapped[self]
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Linked reports whether self and other are snapped together.
func (c *Connectivity) Linked(self, other string) bool {
	_, ok := c.snapped[self][other]
	return ok
}

// Total sums Count over every piece: the directed connection count.
func (c *Connectivity) Total() int {
	total := 0
	for _, s := range c.snapped {
		total += len(s)
	}
	return total
}

// Reset empties every snap set.
func (c *Connectivity) Reset() {
	for id := range c.snapped {
		c.snapped[id] = map[string]struct{}{}
	}
}
